package waveform

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gopxl/beep"
)

// interpolation taps handed to beep.Resample, 1..64
const resampleQuality = 4

const (
	MaxRate = 384000

	// longest output Resample will produce, about 70 minutes at 16 kHz
	MaxSamples = 1 << 26
)

var (
	ErrInvalidRate = errors.New("sample rate must be between 1 and 384000 Hz")
	ErrTooLarge    = errors.New("resampled output too large")
)

// Resample converts mono samples from one rate to another using beep's
// resampler. Equal rates return a copy.
func Resample(samples []float32, fromRate, toRate int) ([]float32, error) {
	if fromRate <= 0 || toRate <= 0 || fromRate > MaxRate || toRate > MaxRate {
		return nil, fmt.Errorf("resample %d Hz to %d Hz: %w", fromRate, toRate, ErrInvalidRate)
	}
	if fromRate == toRate || len(samples) == 0 {
		return slices.Clone(samples), nil
	}

	// rates are bounded, so the product fits in int64
	want64 := int64(len(samples)) * int64(toRate) / int64(fromRate)
	if want64 > MaxSamples {
		return nil, fmt.Errorf("resample %d samples from %d Hz to %d Hz: %w", len(samples), fromRate, toRate, ErrTooLarge)
	}
	want := int(want64)

	src := &monoStreamer{samples: samples}
	resampler := beep.Resample(resampleQuality, beep.SampleRate(fromRate), beep.SampleRate(toRate), src)

	out := make([]float32, 0, want)
	buf := make([][2]float64, 512)
	for len(out) < want {
		n, ok := resampler.Stream(buf[:min(len(buf), want-len(out))])
		for _, frame := range buf[:n] {
			out = append(out, float32(frame[0]))
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := resampler.Err(); err != nil {
		return nil, fmt.Errorf("resample %d Hz to %d Hz: %w", fromRate, toRate, err)
	}
	return out, nil
}

// monoStreamer feeds a mono buffer to beep as identical left and right
// channels.
type monoStreamer struct {
	samples []float32
	pos     int
}

func (m *monoStreamer) Stream(frames [][2]float64) (int, bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	n := copyFrames(frames, m.samples[m.pos:])
	m.pos += n
	return n, true
}

func (m *monoStreamer) Err() error {
	return nil
}

func copyFrames(frames [][2]float64, samples []float32) int {
	n := min(len(frames), len(samples))
	for i := range n {
		v := float64(samples[i])
		frames[i] = [2]float64{v, v}
	}
	return n
}
