package subtitle

import (
	"encoding/json"
	"fmt"
)

// full-fidelity JSON array of captions
type JSONCodec struct{}

// Parse fills missing fields from NewCaption defaults, so a bare
// {"start_ms":0,"end_ms":1000,"text":"hi"} gets confidence 1 and the
// default style.
func (JSONCodec) Parse(content string) ([]Caption, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrParse, err)
	}

	captions := make([]Caption, 0, len(raw))
	for i, item := range raw {
		c := NewCaption(0, 0, "")
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, fmt.Errorf("%w: json caption %d: %v", ErrParse, i, err)
		}
		captions = append(captions, c)
	}
	return captions, nil
}

func (JSONCodec) Format(captions []Caption) (string, error) {
	if captions == nil {
		captions = []Caption{}
	}
	data, err := json.MarshalIndent(captions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode captions: %w", err)
	}
	return string(data), nil
}
