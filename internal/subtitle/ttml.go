package subtitle

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

const emptyTTML = `<?xml version="1.0" encoding="UTF-8"?>
<tt xmlns="http://www.w3.org/ns/ttml"><body><div></div></body></tt>
`

// Timed Text Markup Language codec backed by go-astisub
type TTMLCodec struct{}

func (TTMLCodec) Parse(content string) ([]Caption, error) {
	subs, err := astisub.ReadFromTTML(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: ttml: %v", ErrParse, err)
	}

	captions := make([]Caption, 0, len(subs.Items))
	for _, item := range subs.Items {
		var speaker string
		lines := make([]string, 0, len(item.Lines))
		for _, line := range item.Lines {
			var sb strings.Builder
			for _, li := range line.Items {
				sb.WriteString(li.Text)
			}
			lines = append(lines, sb.String())
			if speaker == "" {
				speaker = line.VoiceName
			}
		}

		c := NewCaption(
			item.StartAt.Milliseconds(),
			item.EndAt.Milliseconds(),
			strings.Join(lines, "\n"),
		)
		c.Speaker = speaker
		captions = append(captions, c)
	}
	return captions, nil
}

func (TTMLCodec) Format(captions []Caption) (string, error) {
	if len(captions) == 0 {
		return emptyTTML, nil
	}

	subs := astisub.NewSubtitles()
	for _, c := range captions {
		item := &astisub.Item{
			StartAt: time.Duration(c.StartMS) * time.Millisecond,
			EndAt:   time.Duration(c.EndMS) * time.Millisecond,
		}
		for _, line := range strings.Split(c.Text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{
				VoiceName: c.Speaker,
				Items:     []astisub.LineItem{{Text: line}},
			})
		}
		subs.Items = append(subs.Items, item)
	}

	var buf bytes.Buffer
	if err := subs.WriteToTTML(&buf); err != nil {
		return "", fmt.Errorf("failed to write TTML: %w", err)
	}
	return buf.String(), nil
}
