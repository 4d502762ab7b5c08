package subtitle

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Advanced SubStation Alpha codec
type ASSCodec struct {
	Title    string
	PlayResX int
	PlayResY int
}

func NewASSCodec() ASSCodec {
	return ASSCodec{
		Title:    "captionflow",
		PlayResX: 1920,
		PlayResY: 1080,
	}
}

const (
	assStyleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	assEventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
)

var (
	assTagRegex = regexp.MustCompile(`^(\{[^}]*\})+`)
	assPosRegex = regexp.MustCompile(`\\pos\(\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)`)
)

func (c ASSCodec) Parse(content string) ([]Caption, error) {
	content = strings.TrimPrefix(content, "\ufeff")

	var (
		captions      []Caption
		section       string
		styleColumns  []string
		eventColumns  []string
		styles        = make(map[string]Style)
		sawEventsFmt  bool
		lineNum       int
		textColumnIdx = -1
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"),
			)
			continue
		}

		switch section {
		case "v4+ styles", "v4 styles":
			if strings.HasPrefix(trimmed, "Format:") {
				styleColumns = splitFormatLine(trimmed)
				continue
			}
			if strings.HasPrefix(trimmed, "Style:") && len(styleColumns) > 0 {
				fields := splitASSFields(
					strings.TrimSpace(strings.TrimPrefix(trimmed, "Style:")),
					len(styleColumns),
				)
				name, style := styleFromFields(styleColumns, fields)
				styles[name] = style
			}

		case "events":
			if strings.HasPrefix(trimmed, "Format:") {
				eventColumns = splitFormatLine(trimmed)
				textColumnIdx = columnIndex(eventColumns, "text")
				if textColumnIdx == -1 {
					return nil, fmt.Errorf("%w: ASS Format line has no Text column", ErrParse)
				}
				sawEventsFmt = true
				continue
			}
			if !strings.HasPrefix(trimmed, "Dialogue:") {
				continue
			}
			if !sawEventsFmt {
				return nil, fmt.Errorf("%w: Dialogue at line %d before Format line", ErrParse, lineNum)
			}

			caption, err := parseDialogue(trimmed, eventColumns, textColumnIdx, styles)
			if err != nil {
				return nil, fmt.Errorf("failed to parse Dialogue at line %d: %w", lineNum, err)
			}
			captions = append(captions, caption)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS content: %w", err)
	}

	if !sawEventsFmt {
		return nil, fmt.Errorf("%w: ASS content missing Format line in [Events] section", ErrParse)
	}

	return captions, nil
}

func parseDialogue(
	line string,
	columns []string,
	textIdx int,
	styles map[string]Style,
) (Caption, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))
	fields := splitASSFields(content, len(columns))
	if len(fields) < len(columns) {
		return Caption{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(fields))
	}

	field := func(name string) string {
		if idx := columnIndex(columns, name); idx >= 0 {
			return strings.TrimSpace(fields[idx])
		}
		return ""
	}

	startMS, err := ParseTimestamp(field("start"))
	if err != nil {
		return Caption{}, fmt.Errorf("invalid start: %w", err)
	}
	endMS, err := ParseTimestamp(field("end"))
	if err != nil {
		return Caption{}, fmt.Errorf("invalid end: %w", err)
	}

	tags, text := extractLeadingTags(fields[textIdx])
	text = strings.ReplaceAll(text, "\\N", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")
	text = strings.ReplaceAll(text, "\\h", " ")

	caption := NewCaption(startMS, endMS, text)
	caption.Speaker = field("name")
	if style, ok := styles[field("style")]; ok {
		caption.Style = style
	}
	if m := assPosRegex.FindStringSubmatch(tags); m != nil {
		x, _ := strconv.ParseFloat(m[1], 64)
		y, _ := strconv.ParseFloat(m[2], 64)
		caption.Style.Position = Position{Kind: PositionCustom, X: int(x), Y: int(y)}
	}

	return caption, nil
}

func splitFormatLine(line string) []string {
	columns := strings.Split(strings.TrimPrefix(line, "Format:"), ",")
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
	}
	return columns
}

func columnIndex(columns []string, name string) int {
	for i, col := range columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// the last field keeps any remaining commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	parts = append(parts, remaining)

	return parts
}

func extractLeadingTags(text string) (string, string) {
	match := assTagRegex.FindString(text)
	if match == "" {
		return "", text
	}
	return match, text[len(match):]
}

func styleFromFields(columns, fields []string) (string, Style) {
	style := DefaultStyle()
	var name string

	for i, col := range columns {
		if i >= len(fields) {
			break
		}
		value := strings.TrimSpace(fields[i])

		switch strings.ToLower(col) {
		case "name":
			name = value
		case "fontname":
			style.FontFamily = value
		case "fontsize":
			if size, err := strconv.ParseFloat(value, 64); err == nil {
				style.FontSize = int(size)
			}
		case "primarycolour":
			style.Color = colorFromASS(value, style.Color)
		case "outlinecolour":
			style.OutlineColor = colorFromASS(value, style.OutlineColor)
		case "backcolour":
			style.Background = colorFromASS(value, style.Background)
		case "bold":
			style.Bold = value != "0" && value != ""
		case "italic":
			style.Italic = value != "0" && value != ""
		case "underline":
			style.Underline = value != "0" && value != ""
		case "spacing":
			if spacing, err := strconv.ParseFloat(value, 64); err == nil {
				style.LetterSpacing = spacing
			}
		case "outline":
			if width, err := strconv.ParseFloat(value, 64); err == nil {
				style.OutlineWidth = int(width)
			}
		case "shadow":
			if depth, err := strconv.ParseFloat(value, 64); err == nil {
				style.ShadowOffsetX = int(depth)
				style.ShadowOffsetY = int(depth)
			}
		case "alignment":
			if n, err := strconv.Atoi(value); err == nil {
				style.Position.Kind, style.Alignment = fromNumpad(n)
			}
		}
	}

	return name, style
}

// numpad layout: 1-3 bottom, 4-6 middle, 7-9 top
func fromNumpad(n int) (PositionKind, TextAlign) {
	if n < 1 || n > 9 {
		return PositionBottom, AlignCenter
	}

	kind := PositionBottom
	switch (n - 1) / 3 {
	case 1:
		kind = PositionMiddle
	case 2:
		kind = PositionTop
	}

	align := AlignCenter
	switch (n - 1) % 3 {
	case 0:
		align = AlignLeft
	case 2:
		align = AlignRight
	}

	return kind, align
}

func toNumpad(pos PositionKind, align TextAlign) int {
	base := 0
	switch pos {
	case PositionMiddle:
		base = 3
	case PositionTop:
		base = 6
	}

	switch align {
	case AlignLeft:
		return base + 1
	case AlignRight:
		return base + 3
	default:
		return base + 2
	}
}

// #RRGGBB[AA] to &HAABBGGRR, ASS alpha is inverted (00 is opaque)
func colorToASS(css, fallback string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(css), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}

	alpha := uint64(0xFF)
	if len(hex) == 8 {
		alpha = v & 0xFF
		v >>= 8
	}
	r, g, b := (v>>16)&0xFF, (v>>8)&0xFF, v&0xFF

	return fmt.Sprintf("&H%02X%02X%02X%02X", 0xFF-alpha, b, g, r)
}

func colorFromASS(ass, fallback string) string {
	hex := strings.TrimSuffix(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(ass)), "&H"), "&")
	if hex == "" || len(hex) > 8 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}

	alpha := 0xFF - (v>>24)&0xFF
	b, g, r := (v>>16)&0xFF, (v>>8)&0xFF, v&0xFF

	if alpha == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, alpha)
}

func (c ASSCodec) Format(captions []Caption) (string, error) {
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", c.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("WrapStyle: 0\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", c.PlayResX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n", c.PlayResY))
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	names, order := assignStyleNames(captions)

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString(assStyleFormat + "\n")
	for _, style := range order {
		sb.WriteString(styleLine(names[styleKey(style)], style))
	}
	sb.WriteString("\n")

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString(assEventFormat + "\n")

	for _, caption := range captions {
		text := escapeASSText(caption.Text)
		if caption.Style.Position.Kind == PositionCustom {
			text = fmt.Sprintf("{\\pos(%d,%d)}", caption.Style.Position.X, caption.Style.Position.Y) + text
		}

		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,%s,%s,0,0,0,,%s\n",
			FormatASSTimestamp(caption.StartMS),
			FormatASSTimestamp(caption.EndMS),
			names[styleKey(caption.Style)],
			strings.ReplaceAll(caption.Speaker, ",", " "),
			text))
	}

	return sb.String(), nil
}

// custom coordinates travel as \pos tags, not as part of the named style
func styleKey(style Style) Style {
	if style.Position.Kind == PositionCustom {
		style.Position = Position{Kind: PositionCustom}
	}
	return style
}

func assignStyleNames(captions []Caption) (map[Style]string, []Style) {
	names := make(map[Style]string)
	var order []Style

	for _, caption := range captions {
		key := styleKey(caption.Style)
		if _, ok := names[key]; ok {
			continue
		}
		if len(order) == 0 {
			names[key] = "Default"
		} else {
			names[key] = fmt.Sprintf("Style%d", len(order)+1)
		}
		order = append(order, key)
	}

	if len(order) == 0 {
		def := DefaultStyle()
		names[def] = "Default"
		order = append(order, def)
	}

	return names, order
}

func styleLine(name string, style Style) string {
	return fmt.Sprintf(
		"Style: %s,%s,%d,%s,&H000000FF,%s,%s,%d,%d,%d,0,100,100,%s,0,1,%d,%d,%d,10,10,10,1\n",
		name,
		style.FontFamily,
		style.FontSize,
		colorToASS(style.Color, "&H00FFFFFF"),
		colorToASS(style.OutlineColor, "&H00000000"),
		colorToASS(style.Background, "&H00000000"),
		assBool(style.Bold),
		assBool(style.Italic),
		assBool(style.Underline),
		strconv.FormatFloat(style.LetterSpacing, 'f', -1, 64),
		style.OutlineWidth,
		style.ShadowOffsetY,
		toNumpad(style.Position.Kind, style.Alignment),
	)
}

func assBool(b bool) int {
	if b {
		return -1
	}
	return 0
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}
