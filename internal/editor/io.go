package editor

import (
	"fmt"
	"os"

	"github.com/captionflow/captionflow/internal/subtitle"
)

// Import replaces the collection with content parsed as format. Parsing
// finishes before anything is touched, so a failure leaves the store as it
// was. On success ids are reassigned from a reset nonce, captions are
// stable-sorted by start and the reading-speed and conflict reports are
// refreshed.
func (s *Store) Import(format subtitle.Format, content string) (int, error) {
	codec, err := subtitle.CodecFor(format)
	if err != nil {
		return 0, err
	}

	parsed, err := codec.Parse(content)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", format, err)
	}

	s.replace(parsed)
	s.logger.Infow("Captions imported", "format", format, "captions", len(s.captions),
		"warnings", len(s.warnings), "conflicts", len(s.conflicts))
	return len(s.captions), nil
}

// ImportFile picks the format from the file extension.
func (s *Store) ImportFile(path string) (int, error) {
	format, err := subtitle.FormatFromExtension(path)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	return s.Import(format, string(data))
}

func (s *Store) replace(captions []subtitle.Caption) {
	s.nonce = 0
	for i := range captions {
		captions[i].ID = s.nextID()
	}
	s.captions = captions
	s.sortByStart()
	s.structural()

	s.warnings = analyzeReadingSpeed(s.captions, s.limits)
	s.conflicts = detectConflicts(s.captions)
}

// reading-speed warnings computed by the last successful import
func (s *Store) LastWarnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

func (s *Store) LastConflicts() []Conflict {
	return append([]Conflict(nil), s.conflicts...)
}

func (s *Store) Export(format subtitle.Format) (string, error) {
	codec, err := subtitle.CodecFor(format)
	if err != nil {
		return "", err
	}
	return codec.Format(s.captions)
}

// ExportFile writes the collection in the format named by the extension.
func (s *Store) ExportFile(path string) error {
	return subtitle.WriteFile(path, s.captions)
}
