package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
)

// reads and parses a subtitle file, picking the codec by extension
func ReadFile(path string) ([]Caption, Format, error) {
	format, err := FormatFromExtension(path)
	if err != nil {
		return nil, "", err
	}
	codec, err := CodecFor(format)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open subtitle file: %w", err)
	}

	captions, err := codec.Parse(string(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return captions, format, nil
}

// formats captions by extension and writes them, creating parent dirs
func WriteFile(path string, captions []Caption) error {
	format, err := FormatFromExtension(path)
	if err != nil {
		return err
	}
	codec, err := CodecFor(format)
	if err != nil {
		return err
	}

	content, err := codec.Format(captions)
	if err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
