package editor

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Split cuts caption id at atMS. Words are divided in proportion to the time
// ratio, rounding the word index down. The first half keeps id, the second
// half is inserted right after it as id + "_split".
func (s *Store) Split(id string, atMS int64) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warnw("Split failed: caption not found", "id", id)
		return false, nil
	}

	c := s.captions[idx]
	if atMS <= c.StartMS || atMS >= c.EndMS {
		return true, fmt.Errorf("split %s at %dms (caption spans %d-%dms): %w",
			id, atMS, c.StartMS, c.EndMS, ErrInvalidSplitPoint)
	}

	ratio := float64(atMS-c.StartMS) / float64(c.EndMS-c.StartMS)
	words := strings.Fields(c.Text)
	cut := int(float64(len(words)) * ratio)

	first := c
	first.EndMS = atMS
	first.Text = strings.Join(words[:cut], " ")

	second := c
	second.ID = c.ID + "_split"
	second.StartMS = atMS
	second.Text = strings.Join(words[cut:], " ")

	s.captions[idx] = first
	s.captions = slices.Insert(s.captions, idx+1, second)
	s.structural()

	s.logger.Infow("Caption split", "id", id, "at_ms", atMS, "words", len(words), "cut", cut)
	return true, nil
}

// Select replaces the selection with positions, in call order.
func (s *Store) Select(positions ...int) error {
	for _, p := range positions {
		if p < 0 || p >= len(s.captions) {
			return fmt.Errorf("position %d of %d captions: %w", p, len(s.captions), ErrInvalidSelection)
		}
	}
	s.selected = slices.Clone(positions)
	return nil
}

func (s *Store) Selection() []int {
	return slices.Clone(s.selected)
}

func (s *Store) ClearSelection() {
	s.selected = nil
}

// MergeSelected joins the selected captions into the first of them.
func (s *Store) MergeSelected() error {
	positions := slices.Clone(s.selected)
	slices.Sort(positions)
	positions = slices.Compact(positions)
	if len(positions) < 2 {
		return fmt.Errorf("%d distinct captions selected: %w", len(positions), ErrInsufficientSelection)
	}

	texts := make([]string, 0, len(positions))
	for _, p := range positions {
		texts = append(texts, s.captions[p].Text)
	}

	first := positions[0]
	last := positions[len(positions)-1]
	s.captions[first].Text = strings.Join(texts, " ")
	s.captions[first].EndMS = s.captions[last].EndMS

	for i := len(positions) - 1; i > 0; i-- {
		p := positions[i]
		s.captions = slices.Delete(s.captions, p, p+1)
	}
	s.structural()

	s.logger.Infow("Captions merged", "id", s.captions[first].ID, "count", len(positions))
	return nil
}

// ShiftAll adds deltaMS to every start and end. Results may go negative.
func (s *Store) ShiftAll(deltaMS int64) {
	for i := range s.captions {
		s.captions[i].StartMS += deltaMS
		s.captions[i].EndMS += deltaMS
	}
	s.commit()
	s.logger.Infow("Captions shifted", "delta_ms", deltaMS, "captions", len(s.captions))
}

// StretchAll scales every start and end by factor, truncating toward zero.
func (s *Store) StretchAll(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("factor %v: %w", factor, ErrInvalidFactor)
	}

	for i := range s.captions {
		s.captions[i].StartMS = int64(float64(s.captions[i].StartMS) * factor)
		s.captions[i].EndMS = int64(float64(s.captions[i].EndMS) * factor)
	}
	s.commit()
	s.logger.Infow("Captions stretched", "factor", factor, "captions", len(s.captions))
	return nil
}
