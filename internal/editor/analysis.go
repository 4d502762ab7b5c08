package editor

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/captionflow/captionflow/internal/subtitle"
)

type Limits struct {
	MaxCPS          float64 `json:"max_cps" yaml:"max_cps"`
	MinCPS          float64 `json:"min_cps" yaml:"min_cps"`
	MinCharsForSlow int     `json:"min_chars_for_slow" yaml:"min_chars_for_slow"`
}

func DefaultLimits() Limits {
	return Limits{MaxCPS: 20, MinCPS: 5, MinCharsForSlow: 10}
}

type WarningKind string

const (
	TooFast WarningKind = "too_fast"
	TooSlow WarningKind = "too_slow"
)

// Warning reports a caption read too fast or too slow. Index is 0-based,
// Message numbers captions from 1.
type Warning struct {
	Index   int         `json:"index"`
	Kind    WarningKind `json:"kind"`
	CPS     float64     `json:"cps"`
	Message string      `json:"message"`
}

// MarshalJSON writes an infinite CPS as null, which encoding/json rejects.
func (w Warning) MarshalJSON() ([]byte, error) {
	type plain Warning
	out := struct {
		plain
		CPS *float64 `json:"cps"`
	}{plain: plain(w)}
	if !math.IsInf(w.CPS, 0) && !math.IsNaN(w.CPS) {
		out.CPS = &w.CPS
	}
	return json.Marshal(out)
}

type Conflict struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// AnalyzeReadingSpeed flags captions outside the configured limits. A caption
// with text and no positive duration is too fast with infinite CPS; an empty
// one is skipped.
func (s *Store) AnalyzeReadingSpeed() []Warning {
	return analyzeReadingSpeed(s.captions, s.limits)
}

func analyzeReadingSpeed(captions []subtitle.Caption, limits Limits) []Warning {
	var warnings []Warning
	for i, c := range captions {
		chars := utf8.RuneCountInString(c.Text)
		duration := c.EndMS - c.StartMS

		if duration <= 0 {
			if chars == 0 {
				continue
			}
			warnings = append(warnings, Warning{
				Index:   i,
				Kind:    TooFast,
				CPS:     math.Inf(1),
				Message: fmt.Sprintf("Caption %d too fast: zero duration", i+1),
			})
			continue
		}

		cps := float64(chars) / (float64(duration) / 1000)
		switch {
		case cps > limits.MaxCPS:
			warnings = append(warnings, Warning{
				Index:   i,
				Kind:    TooFast,
				CPS:     cps,
				Message: fmt.Sprintf("Caption %d too fast: %.1f chars/sec", i+1, cps),
			})
		case cps < limits.MinCPS && chars > limits.MinCharsForSlow:
			warnings = append(warnings, Warning{
				Index:   i,
				Kind:    TooSlow,
				CPS:     cps,
				Message: fmt.Sprintf("Caption %d too slow: %.1f chars/sec", i+1, cps),
			})
		}
	}
	return warnings
}

// DetectConflicts returns every overlapping pair (i < j), not only neighbours.
func (s *Store) DetectConflicts() []Conflict {
	return detectConflicts(s.captions)
}

func detectConflicts(captions []subtitle.Caption) []Conflict {
	var conflicts []Conflict
	for i := range captions {
		for j := i + 1; j < len(captions); j++ {
			if captions[i].EndMS > captions[j].StartMS && captions[i].StartMS < captions[j].EndMS {
				conflicts = append(conflicts, Conflict{First: i, Second: j})
			}
		}
	}
	return conflicts
}
