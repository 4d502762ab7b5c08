package editor

import (
	"errors"

	"github.com/captionflow/captionflow/internal/subtitle"
)

// validation failures: nothing is mutated and no history is recorded
var (
	ErrInvalidSplitPoint     = errors.New("split time must be strictly within caption duration")
	ErrInsufficientSelection = errors.New("select at least 2 captions to merge")
	ErrInvalidSelection      = errors.New("selection position out of range")
	ErrEmptyPattern          = errors.New("find pattern must not be empty")
	ErrInvalidFactor         = errors.New("stretch factor must be a finite number")
)

// re-exported so callers of the editor need not import subtitle for errors.Is
var (
	ErrParse             = subtitle.ErrParse
	ErrUnsupportedFormat = subtitle.ErrUnsupportedFormat
)

// reports whether err is a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSplitPoint) ||
		errors.Is(err, ErrInsufficientSelection) ||
		errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrEmptyPattern) ||
		errors.Is(err, ErrInvalidFactor)
}
