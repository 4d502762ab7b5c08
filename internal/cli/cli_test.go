package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/captionflow/captionflow/internal/subtitle"
)

const lintSRT = `1
00:00:00,000 --> 00:00:02,000
first

2
00:00:01,000 --> 00:00:01,100
this one is far too fast to read
`

const cleanSRT = `1
00:00:00,000 --> 00:00:01,500
hello world
`

// flag values survive between Execute calls on the shared command tree
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputFor(t *testing.T) {
	tests := []struct {
		input    string
		explicit string
		suffix   string
		want     string
	}{
		{"talk.srt", "", "retimed", "talk.retimed.srt"},
		{"dir/talk.vtt", "", "clean", "dir/talk.clean.vtt"},
		{"talk.srt", "other.ass", "clean", "other.ass"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := outputFor(tt.input, tt.explicit, tt.suffix); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetFormat(t *testing.T) {
	tests := []struct {
		output string
		to     string
		want   subtitle.Format
	}{
		{"out.vtt", "", subtitle.FormatVTT},
		{"out.txt", "json", subtitle.FormatJSON},
		{"", "ssa", subtitle.FormatASS},
	}

	for _, tt := range tests {
		got, err := targetFormat(tt.output, tt.to)
		if err != nil {
			t.Errorf("targetFormat(%q, %q): %v", tt.output, tt.to, err)
			continue
		}
		if got != tt.want {
			t.Errorf("targetFormat(%q, %q): got %q, want %q", tt.output, tt.to, got, tt.want)
		}
	}

	if _, err := targetFormat("out.docx", ""); !errors.Is(err, subtitle.ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)
	out := filepath.Join(dir, "talk.vtt")

	if _, err := execute(t, "convert", in, "-o", out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Errorf("expected a WebVTT file, got %q", data)
	}
}

func TestConvertToDerivesPath(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)

	if _, err := execute(t, "convert", in, "--to", "json"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	captions, _, err := subtitle.ReadFile(filepath.Join(dir, "talk.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(captions) != 1 || captions[0].Text != "hello world" {
		t.Errorf("got %+v", captions)
	}
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)

	if _, err := execute(t, "convert", in); err == nil {
		t.Error("expected an error without --output or --to")
	}
	if _, err := execute(t, "convert", in, "-o", in); err == nil {
		t.Error("expected an error when overwriting the input")
	}
	if _, err := execute(t, "convert", filepath.Join(dir, "missing.srt"), "--to", "vtt"); err == nil {
		t.Error("expected an error for a missing input")
	}
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", lintSRT)

	out, err := execute(t, "lint", in)
	if !errors.Is(err, errLintFailed) {
		t.Fatalf("got %v, want errLintFailed", err)
	}
	for _, want := range []string{"Caption 2 too fast", "Caption 1 overlaps caption 2", "1 reading-speed warnings, 1 overlaps"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLintClean(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)

	out, err := execute(t, "lint", in)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !strings.Contains(out, "no problems found") {
		t.Errorf("got %q", out)
	}
}

func TestRetime(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)

	if _, err := execute(t, "retime", in, "--shift", "1000", "--stretch", "2"); err != nil {
		t.Fatalf("retime: %v", err)
	}

	captions, _, err := subtitle.ReadFile(filepath.Join(dir, "talk.retimed.srt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(captions) != 1 {
		t.Fatalf("got %d captions, want 1", len(captions))
	}
	if captions[0].StartMS != 1000 || captions[0].EndMS != 4000 {
		t.Errorf("got %d-%d, want 1000-4000", captions[0].StartMS, captions[0].EndMS)
	}

	if _, err := execute(t, "retime", in); err == nil {
		t.Error("expected an error without --shift or --stretch")
	}
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)
	out := filepath.Join(dir, "cleaned.srt")

	_, err := execute(t, "clean", in, "--find", "HELLO", "--replace", "goodbye", "--punctuate", "-o", out)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	captions, _, err := subtitle.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(captions) != 1 || captions[0].Text != "Goodbye world." {
		t.Errorf("got %+v", captions)
	}
}

func TestCleanRequiresAStep(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "talk.srt", cleanSRT)

	if _, err := execute(t, "clean", in); err == nil {
		t.Error("expected an error without any clean-up flag")
	}
}

// one second of 16kHz mono silence with two loud 100-sample blocks
func writeBurstWAV(t *testing.T, path string) {
	t.Helper()

	frames := make([]int16, 16000)
	for _, start := range []int{4000, 12000} {
		for i := start; i < start+100; i++ {
			frames[i] = 16384
		}
	}

	dataLen := len(frames) * 2
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint32(32000))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, frames)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWaveformJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burst.wav")
	writeBurstWAV(t, path)

	out, err := execute(t, "waveform", path, "--json")
	if err != nil {
		t.Fatalf("waveform: %v", err)
	}

	var report waveformReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.DurationMS != 1000 {
		t.Errorf("duration: got %d, want 1000", report.DurationMS)
	}
	if len(report.Envelope) != 160 {
		t.Errorf("envelope: got %d points, want 160", len(report.Envelope))
	}
	if want := []int{40, 120}; !slices.Equal(report.Peaks, want) {
		t.Errorf("peaks: got %v, want %v", report.Peaks, want)
	}
	if want := []int64{250, 750}; !slices.Equal(report.PeakTimes, want) {
		t.Errorf("peak times: got %v, want %v", report.PeakTimes, want)
	}
}

func TestWaveformSnap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burst.wav")
	writeBurstWAV(t, path)

	out, err := execute(t, "waveform", path, "--at", "260")
	if err != nil {
		t.Fatalf("waveform: %v", err)
	}
	for _, want := range []string{"nearest peak:    00:00:00,250", "nearest silence: 00:00:00,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWaveformThresholdFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burst.wav")
	writeBurstWAV(t, path)

	out, err := execute(t, "waveform", path, "--threshold", "0.9")
	if err != nil {
		t.Fatalf("waveform: %v", err)
	}
	if !strings.HasPrefix(out, "160 envelope points, 0 peaks") {
		t.Errorf("got %q", out)
	}
}

func TestWaveformThresholdUsesFullScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burst.wav")
	writeBurstWAV(t, path)

	// bursts sit at half of full scale
	out, err := execute(t, "waveform", path, "--threshold", "0.3")
	if err != nil {
		t.Fatalf("waveform: %v", err)
	}
	if !strings.HasPrefix(out, "160 envelope points, 2 peaks above 0.300") {
		t.Errorf("got %q", out)
	}
}

func TestPeakTimes(t *testing.T) {
	if got := peakTimes([]int{1}, 0, 1000); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := peakTimes([]int{0, 5}, 10, 2000); !slices.Equal(got, []int64{0, 1000}) {
		t.Errorf("got %v", got)
	}
}
