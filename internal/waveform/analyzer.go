// Package waveform reduces audio sample buffers to a low resolution amplitude
// envelope for timeline scrubbing and reports peaks and quiet points in it.
package waveform

import (
	"math"
	"slices"
)

// samples averaged into one envelope point
const DefaultRatio = 100

// snap searches this many envelope points either side of the cursor
const searchRange = 50

type Analyzer struct {
	ratio    int
	envelope []float32
}

func NewAnalyzer(ratio int) *Analyzer {
	if ratio < 1 {
		ratio = DefaultRatio
	}
	return &Analyzer{ratio: ratio}
}

func (a *Analyzer) Ratio() int {
	return a.ratio
}

// ProcessBuffer replaces the envelope with the mean absolute amplitude of each
// consecutive chunk of ratio samples. A short final chunk is averaged over its
// own length.
func (a *Analyzer) ProcessBuffer(samples []float32) {
	envelope := make([]float32, 0, (len(samples)+a.ratio-1)/a.ratio)
	for chunk := range slices.Chunk(samples, a.ratio) {
		var sum float64
		for _, s := range chunk {
			sum += math.Abs(float64(s))
		}
		envelope = append(envelope, float32(sum/float64(len(chunk))))
	}
	a.envelope = envelope
}

func (a *Analyzer) Envelope() []float32 {
	return slices.Clone(a.envelope)
}

func (a *Analyzer) Len() int {
	return len(a.envelope)
}

// Peaks returns, in ascending order, every interior index whose value exceeds
// threshold and both neighbours.
func (a *Analyzer) Peaks(threshold float32) []int {
	env := a.envelope
	var peaks []int
	for i := 1; i < len(env)-1; i++ {
		if env[i] > threshold && env[i] > env[i-1] && env[i] > env[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
