package subtitle

import (
	"errors"
	"fmt"
)

var (
	ErrParse             = errors.New("parse failure")
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
	ErrExportOnly        = errors.New("format is export only")
)

// ParseError identifies the timestamp field or line that could not be read.
type ParseError struct {
	Field string
	Value string
	Line  int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s %q", e.Line, e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
