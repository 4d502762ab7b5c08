// Package editor holds the caption store: the ordered caption collection,
// its id allocator, the merge selection and the bounded undo history.
//
// A Store is not safe for concurrent use. Hosts with more than one caller
// must serialize access, see the api package for a mutex-guarded wrapper.
package editor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/captionflow/captionflow/internal/logging"
	"github.com/captionflow/captionflow/internal/subtitle"
)

type Store struct {
	captions  []subtitle.Caption
	selected  []int
	nonce     int
	history   *History
	limits    Limits
	logger    *logging.Logger
	warnings  []Warning
	conflicts []Conflict
}

type Option func(*storeOptions)

type storeOptions struct {
	logger          *logging.Logger
	limits          Limits
	historyCapacity int
}

func WithLogger(logger *logging.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithReadingSpeed(limits Limits) Option {
	return func(o *storeOptions) {
		o.limits = limits
	}
}

func WithHistoryCapacity(n int) Option {
	return func(o *storeOptions) {
		o.historyCapacity = n
	}
}

// empty store with a single empty snapshot at cursor 0
func New(opts ...Option) *Store {
	o := storeOptions{
		logger:          logging.Nop(),
		limits:          DefaultLimits(),
		historyCapacity: DefaultHistoryCapacity,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		history: NewHistory(o.historyCapacity, nil),
		limits:  o.limits,
		logger:  o.logger,
	}
}

const idPrefix = "caption_"

func (s *Store) nextID() string {
	id := fmt.Sprintf("%s%d", idPrefix, s.nonce)
	s.nonce++
	return id
}

// raiseNonce moves the allocator past every caption_<n> in the live
// collection. Restored snapshots can hold ids minted before an import
// reset the counter.
func (s *Store) raiseNonce() {
	for _, c := range s.captions {
		n, err := strconv.Atoi(strings.TrimPrefix(c.ID, idPrefix))
		if err != nil || !strings.HasPrefix(c.ID, idPrefix) {
			continue
		}
		s.nonce = max(s.nonce, n+1)
	}
}

// commit records the live collection as one new snapshot
func (s *Store) commit() {
	s.history.Record(s.captions)
}

// structural edits invalidate positions held by the selection
func (s *Store) structural() {
	s.selected = nil
	s.commit()
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.captions, func(c subtitle.Caption) bool {
		return c.ID == id
	})
}

func (s *Store) sortByStart() {
	slices.SortStableFunc(s.captions, func(a, b subtitle.Caption) int {
		switch {
		case a.StartMS < b.StartMS:
			return -1
		case a.StartMS > b.StartMS:
			return 1
		default:
			return 0
		}
	})
}

// copy of the live collection
func (s *Store) Captions() []subtitle.Caption {
	return subtitle.Clone(s.captions)
}

func (s *Store) Caption(id string) (subtitle.Caption, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return subtitle.Caption{}, false
	}
	return s.captions[idx], true
}

func (s *Store) Len() int {
	return len(s.captions)
}

// Create appends an empty zero-duration caption at startMS. The collection is
// not re-sorted.
func (s *Store) Create(startMS int64) string {
	c := subtitle.NewCaption(startMS, startMS, "")
	c.ID = s.nextID()
	s.captions = append(s.captions, c)
	s.structural()

	s.logger.Infow("Caption created", "id", c.ID, "start_ms", startMS)
	return c.ID
}

// AddTimed appends a fully specified caption and stable-sorts by start.
func (s *Store) AddTimed(startMS, endMS int64, text string) string {
	c := subtitle.NewCaption(startMS, endMS, text)
	c.ID = s.nextID()
	s.captions = append(s.captions, c)
	s.sortByStart()
	s.structural()

	s.logger.Infow("Caption added", "id", c.ID, "start_ms", startMS, "end_ms", endMS)
	return c.ID
}

// UpdateText reports false and records nothing when id is unknown.
func (s *Store) UpdateText(id, text string) bool {
	s.logger.Infow("Updating caption text", "id", id, "text", text)

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warnw("Update text failed: caption not found", "id", id)
		return false
	}
	s.captions[idx].Text = text
	s.commit()
	return true
}

// UpdateTiming does not check endMS >= startMS and does not re-sort.
func (s *Store) UpdateTiming(id string, startMS, endMS int64) bool {
	s.logger.Debugw("Updating caption timing", "id", id, "start_ms", startMS, "end_ms", endMS)

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warnw("Update timing failed: caption not found", "id", id)
		return false
	}
	s.captions[idx].StartMS = startMS
	s.captions[idx].EndMS = endMS
	s.commit()
	return true
}

func (s *Store) UpdateStyle(id string, style subtitle.Style) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warnw("Update style failed: caption not found", "id", id)
		return false
	}
	s.captions[idx].Style = style
	s.commit()
	return true
}

// UpdateSpeaker sets the speaker label, same miss semantics as UpdateText.
func (s *Store) UpdateSpeaker(id, speaker string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warnw("Update speaker failed: caption not found", "id", id)
		return false
	}
	s.captions[idx].Speaker = speaker
	s.commit()
	return true
}

// UpdateGlobalStyle records a snapshot even for an empty collection.
func (s *Store) UpdateGlobalStyle(style subtitle.Style) {
	for i := range s.captions {
		s.captions[i].Style = style
	}
	s.commit()
	s.logger.Infow("Global style updated", "captions", len(s.captions))
}

// Delete removes every caption whose id is listed; unknown ids are ignored.
func (s *Store) Delete(ids []string) int {
	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}

	before := len(s.captions)
	s.captions = slices.DeleteFunc(s.captions, func(c subtitle.Caption) bool {
		_, ok := remove[c.ID]
		return ok
	})
	s.structural()

	removed := before - len(s.captions)
	s.logger.Infow("Captions deleted", "requested", len(ids), "removed", removed)
	return removed
}

// SortByStart restores chronological order after in-place timing edits.
func (s *Store) SortByStart() {
	s.sortByStart()
	s.structural()
}

func (s *Store) Undo() bool {
	captions, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.captions = captions
	s.selected = nil
	s.raiseNonce()
	return true
}

func (s *Store) Redo() bool {
	captions, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.captions = captions
	s.selected = nil
	s.raiseNonce()
	return true
}

func (s *Store) CanUndo() bool   { return s.history.CanUndo() }
func (s *Store) CanRedo() bool   { return s.history.CanRedo() }
func (s *Store) HistoryLen() int { return s.history.Len() }
