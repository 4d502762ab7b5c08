package subtitle

// single timed caption
type Caption struct {
	ID         string  `json:"id"`
	StartMS    int64   `json:"start_ms"`
	EndMS      int64   `json:"end_ms"`
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker,omitempty"`
	Confidence float64 `json:"confidence"`
	Style      Style   `json:"style"`
}

// duration in milliseconds, negative for inverted ranges
func (c Caption) DurationMS() int64 {
	return c.EndMS - c.StartMS
}

// caption with default presentation and full confidence
func NewCaption(startMS, endMS int64, text string) Caption {
	return Caption{
		StartMS:    startMS,
		EndMS:      endMS,
		Text:       text,
		Confidence: 1.0,
		Style:      DefaultStyle(),
	}
}

// Clone copies a caption slice. Style holds only value fields, so the copy
// shares no mutable state with the original.
func Clone(captions []Caption) []Caption {
	if captions == nil {
		return nil
	}
	out := make([]Caption, len(captions))
	copy(out, captions)
	return out
}

// represents where a caption sits on the frame
type PositionKind string

const (
	PositionBottom PositionKind = "bottom"
	PositionTop    PositionKind = "top"
	PositionMiddle PositionKind = "middle"
	PositionCustom PositionKind = "custom"
)

type Position struct {
	Kind PositionKind `json:"kind"`
	X    int          `json:"x,omitempty"`
	Y    int          `json:"y,omitempty"`
}

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// optional entrance animation
type Animation struct {
	Type        string  `json:"type,omitempty"` // fade, slide, bounce, typewriter
	DurationSec float64 `json:"duration_sec,omitempty"`
}

// visual presentation of a caption, carried through edits untouched
type Style struct {
	Position      Position  `json:"position"`
	FontSize      int       `json:"font_size"`
	FontFamily    string    `json:"font_family"`
	Color         string    `json:"color"`
	Background    string    `json:"background"`
	Alignment     TextAlign `json:"alignment"`
	Bold          bool      `json:"bold"`
	Italic        bool      `json:"italic"`
	Underline     bool      `json:"underline"`
	OutlineColor  string    `json:"outline_color,omitempty"`
	OutlineWidth  int       `json:"outline_width"`
	ShadowColor   string    `json:"shadow_color,omitempty"`
	ShadowOffsetX int       `json:"shadow_offset_x"`
	ShadowOffsetY int       `json:"shadow_offset_y"`
	ShadowBlur    float64   `json:"shadow_blur"`
	BorderRadius  float64   `json:"border_radius"`
	LetterSpacing float64   `json:"letter_spacing"`
	Animation     Animation `json:"animation"`
}

func DefaultStyle() Style {
	return Style{
		Position:   Position{Kind: PositionBottom},
		FontSize:   16,
		FontFamily: "Arial",
		Color:      "#FFFFFF",
		Background: "#000000CC",
		Alignment:  AlignCenter,
	}
}
