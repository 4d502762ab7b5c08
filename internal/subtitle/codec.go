package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT    Format = "srt"
	FormatVTT    Format = "vtt"
	FormatASS    Format = "ass"
	FormatJSON   Format = "json"
	FormatTTML   Format = "ttml"
	FormatEDL    Format = "edl"
	FormatFCPXML Format = "fcpxml"
)

// converts captions to and from one file grammar
type Codec interface {
	Parse(content string) ([]Caption, error)
	Format(captions []Caption) (string, error)
}

var codecs = map[Format]Codec{
	FormatSRT:    SRTCodec{},
	FormatVTT:    VTTCodec{},
	FormatASS:    NewASSCodec(),
	FormatJSON:   JSONCodec{},
	FormatTTML:   TTMLCodec{},
	FormatEDL:    EDLCodec{FrameRate: 30, Title: "Caption EDL"},
	FormatFCPXML: FCPXMLCodec{},
}

// every supported format, in a stable order
func Formats() []Format {
	return []Format{
		FormatSRT,
		FormatVTT,
		FormatASS,
		FormatJSON,
		FormatTTML,
		FormatEDL,
		FormatFCPXML,
	}
}

func CodecFor(format Format) (Codec, error) {
	codec, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return codec, nil
}

// format from an identifier such as "srt" or ".vtt"
func ParseFormat(name string) (Format, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch name {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "ass", "ssa":
		return FormatASS, nil
	case "json":
		return FormatJSON, nil
	case "ttml", "dfxp":
		return FormatTTML, nil
	case "edl":
		return FormatEDL, nil
	case "fcpxml", "xml":
		return FormatFCPXML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// subtitle format based on file extension
func FormatFromExtension(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatFCPXML:
		return ".fcpxml"
	case "":
		return ".srt"
	default:
		return "." + string(format)
	}
}
