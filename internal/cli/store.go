package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/captionflow/captionflow/internal/editor"
	"github.com/captionflow/captionflow/internal/subtitle"
)

// loadStore imports a subtitle file into a fresh store
func loadStore(path string) (*editor.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	store := editor.New(
		editor.WithLogger(logger),
		editor.WithReadingSpeed(cfg.ReadingSpeed),
	)
	if _, err := store.ImportFile(path); err != nil {
		return nil, err
	}
	return store, nil
}

// outputFor picks the explicit output path or derives "<name>.<suffix><ext>"
// next to the input.
func outputFor(inputPath, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "." + suffix + ext
}

func saveStore(store *editor.Store, path string) error {
	if err := store.ExportFile(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	absOutput, _ := filepath.Abs(path)
	fmt.Printf("Captions written: %s (%d captions)\n", absOutput, store.Len())
	return nil
}

func writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// format for a target given either an explicit path or a --to name
func targetFormat(outputPath, to string) (subtitle.Format, error) {
	if to != "" {
		return subtitle.ParseFormat(to)
	}
	return subtitle.FormatFromExtension(outputPath)
}
