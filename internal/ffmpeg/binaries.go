// Package ffmpeg resolves the ffmpeg and ffprobe executables used for audio
// extraction.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Locate fills each empty path from PATH. Configured paths must point at an
// existing file.
func Locate(configured BinaryPaths) (BinaryPaths, error) {
	ffmpegPath, err := resolve("ffmpeg", configured.FFmpeg)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := resolve("ffprobe", configured.FFprobe)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func resolve(name, configured string) (string, error) {
	if configured != "" {
		if !fileExists(configured) {
			return "", fmt.Errorf("%w: %s not at %s", ErrNotFound, name, configured)
		}
		return configured, nil
	}

	found, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s not on PATH, set ffmpeg.%s_path: %v", ErrNotFound, name, name, err)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
