package editor

import "github.com/captionflow/captionflow/internal/subtitle"

const DefaultHistoryCapacity = 100

// History is a bounded linear undo buffer. Snapshots live in a fixed ring of
// slots; head is the slot of the oldest snapshot and cursor is the logical
// position (0 = oldest) of the live one.
type History struct {
	slots  [][]subtitle.Caption
	head   int
	length int
	cursor int
}

// history seeded with one snapshot at cursor 0
func NewHistory(capacity int, initial []subtitle.Caption) *History {
	if capacity < 1 {
		capacity = 1
	}
	h := &History{slots: make([][]subtitle.Caption, capacity)}
	h.slots[0] = subtitle.Clone(initial)
	h.length = 1
	return h
}

func (h *History) slot(pos int) int {
	return (h.head + pos) % len(h.slots)
}

// Record drops every snapshot after the cursor, evicts the oldest one when
// the ring is full and appends a copy of captions as the new live snapshot.
func (h *History) Record(captions []subtitle.Caption) {
	for pos := h.cursor + 1; pos < h.length; pos++ {
		h.slots[h.slot(pos)] = nil
	}
	h.length = h.cursor + 1

	if h.length == len(h.slots) {
		h.slots[h.head] = nil
		h.head = (h.head + 1) % len(h.slots)
		h.length--
		h.cursor--
	}

	h.slots[h.slot(h.length)] = subtitle.Clone(captions)
	h.length++
	h.cursor = h.length - 1
}

// steps back and returns a copy of the snapshot now under the cursor
func (h *History) Undo() ([]subtitle.Caption, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return h.Current(), true
}

func (h *History) Redo() ([]subtitle.Caption, bool) {
	if h.cursor >= h.length-1 {
		return nil, false
	}
	h.cursor++
	return h.Current(), true
}

func (h *History) Current() []subtitle.Caption {
	return subtitle.Clone(h.slots[h.slot(h.cursor)])
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < h.length-1 }
func (h *History) Len() int      { return h.length }
func (h *History) Cursor() int   { return h.cursor }
func (h *History) Capacity() int { return len(h.slots) }
