package subtitle

import (
	"fmt"
	"strings"
)

// CMX 3600 edit decision list, one cut event per caption
type EDLCodec struct {
	FrameRate int
	Title     string
}

func (EDLCodec) Parse(string) ([]Caption, error) {
	return nil, fmt.Errorf("%w: edl", ErrExportOnly)
}

func (c EDLCodec) Format(captions []Caption) (string, error) {
	fps := c.FrameRate
	if fps <= 0 {
		fps = 30
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("TITLE: %s\n", c.Title))
	sb.WriteString("FCM: NON-DROP FRAME\n\n")

	for i, caption := range captions {
		in := FormatEDLTimecode(caption.StartMS, fps)
		out := FormatEDLTimecode(caption.EndMS, fps)

		// event, reel, track, edit type, source in/out, record in/out
		sb.WriteString(fmt.Sprintf("%03d  %-8s V     C        %s %s %s %s\n",
			i+1, "AX", in, out, in, out))

		comment := strings.Join(strings.Fields(caption.Text), " ")
		if comment != "" {
			sb.WriteString("* CAPTION: " + comment + "\n")
		}
		if caption.Speaker != "" {
			sb.WriteString("* SPEAKER: " + caption.Speaker + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
