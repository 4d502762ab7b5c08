package subtitle

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const basicTitleUID = ".../Titles.localized/Bumper:Opener.localized/Basic Title.localized/Basic Title.moti"

// Final Cut Pro XML export, one title per caption laid over a gap
type FCPXMLCodec struct{}

type fcpxml struct {
	XMLName   xml.Name     `xml:"fcpxml"`
	Version   string       `xml:"version,attr"`
	Resources fcpResources `xml:"resources"`
	Library   fcpLibrary   `xml:"library"`
}

type fcpResources struct {
	Format fcpFormat `xml:"format"`
	Effect fcpEffect `xml:"effect"`
}

type fcpFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type fcpEffect struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	UID  string `xml:"uid,attr"`
}

type fcpLibrary struct {
	Event fcpEvent `xml:"event"`
}

type fcpEvent struct {
	Name    string     `xml:"name,attr"`
	Project fcpProject `xml:"project"`
}

type fcpProject struct {
	Name     string      `xml:"name,attr"`
	Sequence fcpSequence `xml:"sequence"`
}

type fcpSequence struct {
	Format   string   `xml:"format,attr"`
	Duration string   `xml:"duration,attr"`
	TCStart  string   `xml:"tcStart,attr"`
	Spine    fcpSpine `xml:"spine"`
}

type fcpSpine struct {
	Gap fcpGap `xml:"gap"`
}

type fcpGap struct {
	Name     string     `xml:"name,attr"`
	Offset   string     `xml:"offset,attr"`
	Duration string     `xml:"duration,attr"`
	Start    string     `xml:"start,attr"`
	Titles   []fcpTitle `xml:"title"`
}

type fcpTitle struct {
	Ref      string          `xml:"ref,attr"`
	Lane     int             `xml:"lane,attr"`
	Offset   string          `xml:"offset,attr"`
	Duration string          `xml:"duration,attr"`
	Name     string          `xml:"name,attr"`
	Text     fcpText         `xml:"text"`
	StyleDef fcpTextStyleDef `xml:"text-style-def"`
}

type fcpText struct {
	Style fcpTextStyleRef `xml:"text-style"`
}

type fcpTextStyleRef struct {
	Ref  string `xml:"ref,attr"`
	Text string `xml:",chardata"`
}

type fcpTextStyleDef struct {
	ID    string       `xml:"id,attr"`
	Style fcpTextStyle `xml:"text-style"`
}

type fcpTextStyle struct {
	Font      string `xml:"font,attr"`
	FontSize  int    `xml:"fontSize,attr"`
	FontColor string `xml:"fontColor,attr"`
	Bold      int    `xml:"bold,attr,omitempty"`
	Italic    int    `xml:"italic,attr,omitempty"`
	Alignment string `xml:"alignment,attr"`
}

func (FCPXMLCodec) Parse(string) ([]Caption, error) {
	return nil, fmt.Errorf("%w: fcpxml", ErrExportOnly)
}

func (FCPXMLCodec) Format(captions []Caption) (string, error) {
	var total int64
	titles := make([]fcpTitle, 0, len(captions))

	for i, c := range captions {
		if c.EndMS > total {
			total = c.EndMS
		}
		styleID := fmt.Sprintf("ts%d", i+1)
		titles = append(titles, fcpTitle{
			Ref:      "r2",
			Lane:     1,
			Offset:   rationalTime(c.StartMS),
			Duration: rationalTime(c.DurationMS()),
			Name:     firstLine(c.Text),
			Text: fcpText{
				Style: fcpTextStyleRef{Ref: styleID, Text: c.Text},
			},
			StyleDef: fcpTextStyleDef{
				ID: styleID,
				Style: fcpTextStyle{
					Font:      c.Style.FontFamily,
					FontSize:  c.Style.FontSize,
					FontColor: fcpColor(c.Style.Color),
					Bold:      boolInt(c.Style.Bold),
					Italic:    boolInt(c.Style.Italic),
					Alignment: string(c.Style.Alignment),
				},
			},
		})
	}

	doc := fcpxml{
		Version: "1.9",
		Resources: fcpResources{
			Format: fcpFormat{
				ID:            "r1",
				Name:          "FFVideoFormat1080p30",
				FrameDuration: "100/3000s",
				Width:         1920,
				Height:        1080,
			},
			Effect: fcpEffect{ID: "r2", Name: "Basic Title", UID: basicTitleUID},
		},
		Library: fcpLibrary{Event: fcpEvent{
			Name: "Captions",
			Project: fcpProject{
				Name: "Captions",
				Sequence: fcpSequence{
					Format:   "r1",
					Duration: rationalTime(total),
					TCStart:  "0s",
					Spine: fcpSpine{Gap: fcpGap{
						Name:     "Gap",
						Offset:   "0s",
						Duration: rationalTime(total),
						Start:    "0s",
						Titles:   titles,
					}},
				},
			},
		}},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode fcpxml: %w", err)
	}
	return xml.Header + "<!DOCTYPE fcpxml>\n" + string(out) + "\n", nil
}

func rationalTime(ms int64) string {
	if ms <= 0 {
		return "0s"
	}
	return fmt.Sprintf("%d/1000s", ms)
}

// "#RRGGBB[AA]" to the "r g b a" float form used by text-style
func fcpColor(css string) string {
	hex := strings.TrimPrefix(css, "#")
	var r, g, b, a uint8 = 255, 255, 255, 255
	switch len(hex) {
	case 6:
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a)
	}
	return fmt.Sprintf("%.3g %.3g %.3g %.3g",
		float64(r)/255, float64(g)/255, float64(b)/255, float64(a)/255)
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
