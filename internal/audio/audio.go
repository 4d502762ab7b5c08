// Package audio turns media files into mono sample buffers for waveform
// analysis: ffmpeg extracts 16-bit PCM and beep decodes it.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/wav"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/captionflow/captionflow/internal/ffmpeg"
)

const DefaultSampleRate = 16000

// mono float samples at SampleRate
type Samples struct {
	Data       []float32
	SampleRate int
}

func (s Samples) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Data)) * time.Second / time.Duration(s.SampleRate)
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file
func GetDuration(ctx context.Context, bins ffmpegbin.BinaryPaths, filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	cmd := exec.CommandContext(ctx, bins.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// ExtractPCM writes the first audio stream of inputPath to outputPath as mono
// 16-bit little endian WAV at sampleRate.
func ExtractPCM(ctx context.Context, bins ffmpegbin.BinaryPaths, inputPath, outputPath string, sampleRate int) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn":     "",
		"ar":     sampleRate,
		"ac":     1,
		"acodec": "pcm_s16le",
		"f":      "wav",
	}

	done := make(chan error, 1)
	go func() {
		done <- ffmpeg.Input(inputPath).
			Output(outputPath, kwargs).
			OverWriteOutput().
			SetFfmpegPath(bins.FFmpeg).
			Run()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg extraction failed: %w", err)
		}
		return nil
	}
}

const pcm16Scale = 65535.0 / 32768

// DecodeWAV reads a WAV file into mono samples, averaging the channels.
func DecodeWAV(path string) (Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return Samples{}, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return Samples{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	// beep divides 16-bit samples by 1<<16-1, which leaves them in [-0.5, 0.5]
	scale := 1.0
	if format.Precision == 2 {
		scale = pcm16Scale
	}

	data := make([]float32, 0, max(streamer.Len(), 0))
	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		for _, frame := range buf[:n] {
			data = append(data, float32((frame[0]+frame[1])/2*scale))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return Samples{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return Samples{Data: data, SampleRate: int(format.SampleRate)}, nil
}

// Load decodes WAV input directly and sends anything else through ffmpeg
// first, using a scratch file in tempDir.
func Load(ctx context.Context, bins ffmpegbin.BinaryPaths, mediaPath, tempDir string, sampleRate int) (Samples, error) {
	if !IsMediaFile(mediaPath) {
		return Samples{}, fmt.Errorf("not an audio or video file: %s", mediaPath)
	}
	if strings.EqualFold(filepath.Ext(mediaPath), ".wav") {
		return DecodeWAV(mediaPath)
	}

	tmp, err := os.CreateTemp(tempDir, "captionflow-*.wav")
	if err != nil {
		return Samples{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	if err := ExtractPCM(ctx, bins, mediaPath, tmpPath, sampleRate); err != nil {
		return Samples{}, err
	}
	return DecodeWAV(tmpPath)
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".wma":  true,
	".aiff": true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
