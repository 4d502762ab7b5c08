package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionflow/captionflow/internal/audio"
	"github.com/captionflow/captionflow/internal/ffmpeg"
	"github.com/captionflow/captionflow/internal/subtitle"
	"github.com/captionflow/captionflow/internal/waveform"
)

var waveformCmd = &cobra.Command{
	Use:   "waveform [media_file]",
	Short: "Compute the waveform envelope and its peaks",
	Long: `Decode the audio of a media file, compute its amplitude envelope and list the
envelope peaks above a threshold. WAV input is decoded directly; any other
audio or video file is converted with ffmpeg first.

With --at, print the nearest peak and nearest silence around that time
instead, which is what an editor uses to snap caption boundaries.

Examples:
  captionflow waveform talk.wav
  captionflow waveform interview.mp4 --threshold 0.2 --json
  captionflow waveform interview.mp4 --at 12500`,
	Args: cobra.ExactArgs(1),
	RunE: runWaveform,
}

func init() {
	rootCmd.AddCommand(waveformCmd)

	waveformCmd.Flags().Float32P("threshold", "t", 0, "Peak threshold (default from config)")
	waveformCmd.Flags().IntP("rate", "r", 0, "Analysis sample rate (default from config)")
	waveformCmd.Flags().Int64("at", -1, "Snap around this time in milliseconds")
	waveformCmd.Flags().Bool("json", false, "Print the envelope and peaks as JSON")
}

type waveformReport struct {
	SampleRate int       `json:"sample_rate"`
	DurationMS int64     `json:"duration_ms"`
	Ratio      int       `json:"ratio"`
	Envelope   []float32 `json:"envelope"`
	Peaks      []int     `json:"peaks"`
	PeakTimes  []int64   `json:"peak_times_ms"`
}

func runWaveform(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	threshold, _ := cmd.Flags().GetFloat32("threshold")
	rate, _ := cmd.Flags().GetInt("rate")
	at, _ := cmd.Flags().GetInt64("at")
	asJSON, _ := cmd.Flags().GetBool("json")

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !cmd.Flags().Changed("threshold") {
		threshold = cfg.Waveform.PeakThreshold
	}
	if rate <= 0 {
		rate = cfg.Waveform.SampleRate
	}

	ctx := cmd.Context()
	isWAV := strings.EqualFold(filepath.Ext(mediaPath), ".wav")

	var bins ffmpeg.BinaryPaths
	if !isWAV {
		located, err := ffmpeg.Locate(ffmpeg.BinaryPaths{
			FFmpeg:  cfg.FFmpeg.FFmpegPath,
			FFprobe: cfg.FFmpeg.FFprobePath,
		})
		if err != nil {
			return err
		}
		bins = located
		logger.Debugw("Using ffmpeg binaries", "ffmpeg", bins.FFmpeg, "ffprobe", bins.FFprobe)
	}

	logger.Infow("Loading audio", "file", mediaPath, "rate", rate)
	samples, err := audio.Load(ctx, bins, mediaPath, "", rate)
	if err != nil {
		return err
	}

	data, err := waveform.Resample(samples.Data, samples.SampleRate, rate)
	if err != nil {
		return err
	}

	duration := samples.Duration()
	if !isWAV {
		if probed, err := audio.GetDuration(ctx, bins, mediaPath); err == nil {
			duration = probed
		} else {
			logger.Warnw("ffprobe failed, using decoded length", "error", err)
		}
	}
	durationMS := duration.Milliseconds()

	analyzer := waveform.NewAnalyzer(cfg.Waveform.Ratio)
	analyzer.ProcessBuffer(data)
	peaks := analyzer.Peaks(threshold)

	logger.Infow("Waveform computed",
		"duration", duration.Round(time.Millisecond),
		"points", analyzer.Len(),
		"peaks", len(peaks),
	)

	out := cmd.OutOrStdout()

	if at >= 0 {
		if t, ok := analyzer.NearestPeak(at, durationMS, threshold); ok {
			fmt.Fprintf(out, "nearest peak:    %s\n", subtitle.FormatSRTTimestamp(t))
		} else {
			fmt.Fprintln(out, "nearest peak:    none")
		}
		if t, ok := analyzer.NearestSilence(at, durationMS, threshold); ok {
			fmt.Fprintf(out, "nearest silence: %s\n", subtitle.FormatSRTTimestamp(t))
		} else {
			fmt.Fprintln(out, "nearest silence: none")
		}
		return nil
	}

	times := peakTimes(peaks, analyzer.Len(), durationMS)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(waveformReport{
			SampleRate: rate,
			DurationMS: durationMS,
			Ratio:      analyzer.Ratio(),
			Envelope:   analyzer.Envelope(),
			Peaks:      nonNil(peaks),
			PeakTimes:  nonNil(times),
		})
	}

	fmt.Fprintf(out, "%d envelope points, %d peaks above %.3f\n", analyzer.Len(), len(peaks), threshold)
	for _, t := range times {
		fmt.Fprintln(out, subtitle.FormatSRTTimestamp(t))
	}
	return nil
}

// envelope indices to milliseconds
func peakTimes(peaks []int, points int, durationMS int64) []int64 {
	if points == 0 {
		return nil
	}
	times := make([]int64, len(peaks))
	for i, p := range peaks {
		times[i] = int64(p) * durationMS / int64(points)
	}
	return times
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
