package subtitle

import (
	"errors"
	"strings"
	"testing"
)

func sampleCaptions() []Caption {
	first := NewCaption(0, 1000, "Hello there")
	second := NewCaption(1500, 3250, "Two lines\nof text")
	second.Speaker = "Ana"
	third := NewCaption(3723450, 3725000, "Late caption, with comma")
	return []Caption{first, second, third}
}

func TestSRTParseSkipsShortAndMalformedBlocks(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\nKept\n\n" +
		"lonely line\n\n" +
		"3\nno arrow here\nDropped\n\n" +
		"4\n00:00:05,000 --> 00:00:06,000\n"

	captions, err := SRTCodec{}.Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions, got %d: %+v", len(captions), captions)
	}
	if captions[0].Text != "Kept" {
		t.Errorf("caption 0: got %q, want %q", captions[0].Text, "Kept")
	}
	if captions[1].Text != "" || captions[1].StartMS != 5000 {
		t.Errorf("caption 1: expected empty text at 5000, got %+v", captions[1])
	}
}

func TestSRTParseHandlesCRLFAndBOM(t *testing.T) {
	content := "\ufeff1\r\n00:00:01,000 --> 00:00:02,500\r\nWindows line\r\nendings\r\n\r\n"

	captions, err := SRTCodec{}.Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].Text != "Windows line\nendings" {
		t.Errorf("got %q", captions[0].Text)
	}
	if captions[0].EndMS != 2500 {
		t.Errorf("end: got %d, want 2500", captions[0].EndMS)
	}
}

func TestSRTParseRejectsBadTimestamp(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:xx:02,000\nBroken\n"

	_, err := SRTCodec{}.Parse(content)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.Field != "minutes" {
		t.Errorf("field: got %q, want minutes", perr.Field)
	}
}

func TestSRTFormat(t *testing.T) {
	out, err := SRTCodec{}.Format([]Caption{NewCaption(3723450, 3724000, "Hi")})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	want := "1\n01:02:03,450 --> 01:02:04,000\nHi\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestTextRoundTrips(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
	}{
		{"srt", SRTCodec{}},
		{"vtt", VTTCodec{}},
		{"json", JSONCodec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := sampleCaptions()
			first, err := tt.codec.Format(original)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			parsed, err := tt.codec.Parse(first)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			second, err := tt.codec.Format(parsed)
			if err != nil {
				t.Fatalf("second Format failed: %v", err)
			}
			if first != second {
				t.Errorf("format(parse(format(x))) differs:\n%s\n---\n%s", first, second)
			}

			if len(parsed) != len(original) {
				t.Fatalf("expected %d captions, got %d", len(original), len(parsed))
			}
			for i := range original {
				if parsed[i].StartMS != original[i].StartMS ||
					parsed[i].EndMS != original[i].EndMS ||
					parsed[i].Text != original[i].Text {
					t.Errorf("caption %d: got %+v, want %+v", i, parsed[i], original[i])
				}
			}
		})
	}
}

func TestVTTParse(t *testing.T) {
	content := `WEBVTT

NOTE this is a comment
spanning lines

STYLE
::cue { color: red }

intro
00:00:01.000 --> 00:00:04.000 align:start line:0
<v Roger Bingham>Hello, world!</v>

00:05.500 --> 00:08.200
This is a test.
With multiple lines.
`
	captions, err := VTTCodec{}.Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(captions))
	}

	if captions[0].Speaker != "Roger Bingham" {
		t.Errorf("speaker: got %q", captions[0].Speaker)
	}
	if captions[0].Text != "Hello, world!" {
		t.Errorf("text: got %q", captions[0].Text)
	}
	if captions[1].StartMS != 5500 || captions[1].EndMS != 8200 {
		t.Errorf("short timestamps: got %d-%d", captions[1].StartMS, captions[1].EndMS)
	}
	if captions[1].Text != "This is a test.\nWith multiple lines." {
		t.Errorf("text: got %q", captions[1].Text)
	}
}

func TestASSParse(t *testing.T) {
	content := `[Script Info]
Title: Test Subtitles
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1
Style: Top,Verdana,32,&H0000FFFF,&H000000FF,&H00000000,&H80000000,-1,1,0,0,100,100,0,0,1,2,2,8,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!
Dialogue: 0,0:00:05.50,0:00:08.20,Top,Narrator,0,0,0,,{\pos(100,200)}This has positioning.
Dialogue: 0,0:00:10.00,0:00:12.50,Default,,0,0,0,,Line with\Nnewline.
`
	captions, err := NewASSCodec().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(captions) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(captions))
	}

	if captions[0].StartMS != 1000 || captions[0].Text != "Hello, world!" {
		t.Errorf("caption 0: got %+v", captions[0])
	}

	second := captions[1]
	if second.Text != "This has positioning." {
		t.Errorf("caption 1 text: got %q", second.Text)
	}
	if second.Speaker != "Narrator" {
		t.Errorf("caption 1 speaker: got %q", second.Speaker)
	}
	if second.Style.Position != (Position{Kind: PositionCustom, X: 100, Y: 200}) {
		t.Errorf("caption 1 position: got %+v", second.Style.Position)
	}
	if second.Style.FontFamily != "Verdana" || second.Style.FontSize != 32 {
		t.Errorf("caption 1 font: got %s %d", second.Style.FontFamily, second.Style.FontSize)
	}
	if !second.Style.Bold || !second.Style.Italic {
		t.Errorf("caption 1 emphasis: got bold=%v italic=%v", second.Style.Bold, second.Style.Italic)
	}
	if second.Style.Color != "#FFFF00" {
		t.Errorf("caption 1 color: got %q, want #FFFF00", second.Style.Color)
	}
	if second.Style.Background != "#0000007F" {
		t.Errorf("caption 1 background: got %q, want #0000007F", second.Style.Background)
	}

	if captions[2].Text != "Line with\nnewline." {
		t.Errorf("caption 2: expected 'Line with\\nnewline.', got %q", captions[2].Text)
	}
	if captions[2].EndMS != 12500 {
		t.Errorf("caption 2 end: got %d, want 12500", captions[2].EndMS)
	}
}

func TestASSParseRequiresFormatLine(t *testing.T) {
	_, err := NewASSCodec().Parse("[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hi\n")
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestASSRoundTrip(t *testing.T) {
	captions := sampleCaptions()
	captions[0].Style.Position = Position{Kind: PositionCustom, X: 640, Y: 360}
	captions[1].Style.Position.Kind = PositionTop
	captions[1].Style.Bold = true

	out, err := NewASSCodec().Format(captions)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "Style: Default,") || !strings.Contains(out, "Style: Style2,") {
		t.Errorf("expected two named styles, got:\n%s", out)
	}
	if !strings.Contains(out, `{\pos(640,360)}Hello there`) {
		t.Errorf("expected \\pos override, got:\n%s", out)
	}
	if !strings.Contains(out, `Two lines\Nof text`) {
		t.Errorf("expected escaped newline, got:\n%s", out)
	}

	parsed, err := NewASSCodec().Parse(out)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed) != len(captions) {
		t.Fatalf("expected %d captions, got %d", len(captions), len(parsed))
	}
	for i := range captions {
		if parsed[i].Text != captions[i].Text {
			t.Errorf("caption %d text: got %q, want %q", i, parsed[i].Text, captions[i].Text)
		}
		if parsed[i].StartMS != captions[i].StartMS/10*10 || parsed[i].EndMS != captions[i].EndMS/10*10 {
			t.Errorf("caption %d times: got %d-%d", i, parsed[i].StartMS, parsed[i].EndMS)
		}
		if parsed[i].Speaker != captions[i].Speaker {
			t.Errorf("caption %d speaker: got %q, want %q", i, parsed[i].Speaker, captions[i].Speaker)
		}
	}
	if parsed[0].Style.Position != captions[0].Style.Position {
		t.Errorf("custom position lost: got %+v", parsed[0].Style.Position)
	}
	if parsed[1].Style.Position.Kind != PositionTop || !parsed[1].Style.Bold {
		t.Errorf("style 2 lost: got %+v", parsed[1].Style)
	}
	if parsed[2].Style.Background != DefaultStyle().Background {
		t.Errorf("background: got %q, want %q", parsed[2].Style.Background, DefaultStyle().Background)
	}
}

func TestColorConversion(t *testing.T) {
	tests := []struct {
		css string
		ass string
	}{
		{"#FFFFFF", "&H00FFFFFF"},
		{"#FF0000", "&H000000FF"},
		{"#000000CC", "&H33000000"},
		{"#12345680", "&H7F563412"},
	}

	for _, tt := range tests {
		t.Run(tt.css, func(t *testing.T) {
			if got := colorToASS(tt.css, ""); got != tt.ass {
				t.Errorf("colorToASS(%q) = %q, want %q", tt.css, got, tt.ass)
			}
			if got := colorFromASS(tt.ass, ""); got != tt.css {
				t.Errorf("colorFromASS(%q) = %q, want %q", tt.ass, got, tt.css)
			}
		})
	}

	if got := colorToASS("red", "&H00FFFFFF"); got != "&H00FFFFFF" {
		t.Errorf("invalid color should fall back, got %q", got)
	}
}

func TestJSONParseDefaults(t *testing.T) {
	captions, err := JSONCodec{}.Parse(`[{"start_ms": 10, "end_ms": 20, "text": "hi"}]`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].Confidence != 1.0 {
		t.Errorf("confidence: got %v, want 1", captions[0].Confidence)
	}
	if captions[0].Style != DefaultStyle() {
		t.Errorf("style: got %+v, want default", captions[0].Style)
	}

	if _, err := (JSONCodec{}).Parse(`{not json`); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestTTMLRoundTrip(t *testing.T) {
	captions := []Caption{
		NewCaption(1000, 2500, "First cue"),
		NewCaption(3000, 4000, "Second cue"),
	}

	out, err := TTMLCodec{}.Format(captions)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	parsed, err := TTMLCodec{}.Parse(out)
	if err != nil {
		t.Fatalf("Parse failed: %v\n%s", err, out)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(parsed))
	}
	for i := range captions {
		if parsed[i].StartMS != captions[i].StartMS || parsed[i].EndMS != captions[i].EndMS {
			t.Errorf("caption %d times: got %d-%d", i, parsed[i].StartMS, parsed[i].EndMS)
		}
		if parsed[i].Text != captions[i].Text {
			t.Errorf("caption %d text: got %q, want %q", i, parsed[i].Text, captions[i].Text)
		}
	}
}

func TestEDLFormat(t *testing.T) {
	out, err := EDLCodec{FrameRate: 30, Title: "Caption EDL"}.Format(sampleCaptions()[:2])
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.HasPrefix(out, "TITLE: Caption EDL\nFCM: NON-DROP FRAME\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "002  AX       V     C        00:00:01:15 00:00:03:07") {
		t.Errorf("expected second event line, got:\n%s", out)
	}
	if !strings.Contains(out, "* CAPTION: Two lines of text") {
		t.Errorf("expected caption comment, got:\n%s", out)
	}
}

func TestFCPXMLFormat(t *testing.T) {
	out, err := FCPXMLCodec{}.Format(sampleCaptions()[:2])
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{
		`<fcpxml version="1.9">`,
		`duration="3250/1000s"`,
		`offset="1500/1000s"`,
		`name="Two lines"`,
		`<text-style ref="ts1">Hello there</text-style>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
