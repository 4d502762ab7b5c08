package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// SubRip codec
type SRTCodec struct{}

// Parse reads blank-line separated blocks. The second line of a block holds
// the "start --> end" pair and any further lines are the caption text.
// Blocks with fewer than two lines or without a single arrow are skipped.
func (SRTCodec) Parse(content string) ([]Caption, error) {
	var captions []Caption

	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}

		parts := strings.Split(lines[1], " --> ")
		if len(parts) != 2 {
			continue
		}

		startMS, err := ParseTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp in block %q: %w", lines[0], err)
		}
		endMS, err := ParseTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end timestamp in block %q: %w", lines[0], err)
		}

		captions = append(captions, NewCaption(startMS, endMS, strings.Join(lines[2:], "\n")))
	}

	return captions, nil
}

func (SRTCodec) Format(captions []Caption) (string, error) {
	var sb strings.Builder
	for i, c := range captions {
		// index (1-based)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n")

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(FormatSRTTimestamp(c.StartMS))
		sb.WriteString(" --> ")
		sb.WriteString(FormatSRTTimestamp(c.EndMS))
		sb.WriteString("\n")

		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// normalizes line endings, strips a BOM and splits on blank lines
func splitBlocks(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var blocks []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}
