package subtitle

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// WebVTT codec
type VTTCodec struct{}

var (
	vttTimingRegex = regexp.MustCompile(
		`^((?:\d+:)?\d{2}:\d{2}\.\d{3})\s+-->\s+((?:\d+:)?\d{2}:\d{2}\.\d{3})`,
	)
	vttVoiceRegex = regexp.MustCompile(`^<v(?:\.[^\s>]*)?\s+([^>]*)>`)
)

func (VTTCodec) Parse(content string) ([]Caption, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var captions []Caption
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Caption
	var textLines []string
	lineNum := 0
	headerParsed := false

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(textLines, "\n")
		current.Speaker, current.Text = extractVoice(current.Text)
		captions = append(captions, *current)
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		trimmed := strings.TrimSpace(line)

		if !headerParsed && strings.HasPrefix(trimmed, "WEBVTT") {
			headerParsed = true
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		if current == nil && (strings.HasPrefix(trimmed, "NOTE") ||
			strings.HasPrefix(trimmed, "STYLE") ||
			strings.HasPrefix(trimmed, "REGION")) {
			for scanner.Scan() {
				lineNum++
				if strings.TrimSpace(scanner.Text()) == "" {
					break
				}
			}
			continue
		}

		if matches := vttTimingRegex.FindStringSubmatch(trimmed); matches != nil {
			flush()

			startMS, err := parseVTTTimestamp(matches[1])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			endMS, err := parseVTTTimestamp(matches[2])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}

			c := NewCaption(startMS, endMS, "")
			current = &c
			continue
		}

		// anything before a timing line is a cue identifier
		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT content: %w", err)
	}

	return captions, nil
}

// accepts the short MM:SS.mmm form as well
func parseVTTTimestamp(ts string) (int64, error) {
	if strings.Count(ts, ":") == 1 {
		ts = "00:" + ts
	}
	return ParseTimestamp(ts)
}

func extractVoice(text string) (string, string) {
	m := vttVoiceRegex.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text
	}
	speaker := strings.TrimSpace(text[m[2]:m[3]])
	rest := strings.Replace(text[m[1]:], "</v>", "", 1)
	return speaker, rest
}

func (VTTCodec) Format(captions []Caption) (string, error) {
	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n\n")

	for i, c := range captions {
		// optional cue identifier
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n")

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(FormatVTTTimestamp(c.StartMS))
		sb.WriteString(" --> ")
		sb.WriteString(FormatVTTTimestamp(c.EndMS))
		sb.WriteString("\n")

		if c.Speaker != "" {
			sb.WriteString("<v " + c.Speaker + ">")
		}
		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
