package waveform

// index of the envelope point under timeMS and the search bounds around it
func (a *Analyzer) window(timeMS, durationMS int64) (lo, hi int, ok bool) {
	n := len(a.envelope)
	if n == 0 || durationMS <= 0 {
		return 0, 0, false
	}

	idx := int(float64(timeMS) / float64(durationMS) * float64(n))
	lo = max(idx-searchRange, 0)
	hi = min(idx+searchRange, n)
	return lo, hi, lo < hi
}

func (a *Analyzer) timeOf(i int, durationMS int64) int64 {
	return int64(i) * durationMS / int64(len(a.envelope))
}

// NearestPeak returns the time of the loudest point above threshold within
// the search window around timeMS. The earliest point wins a tie.
func (a *Analyzer) NearestPeak(timeMS, durationMS int64, threshold float32) (int64, bool) {
	lo, hi, ok := a.window(timeMS, durationMS)
	if !ok {
		return 0, false
	}

	best := -1
	bestValue := threshold
	for i := lo; i < hi; i++ {
		if a.envelope[i] > bestValue {
			best = i
			bestValue = a.envelope[i]
		}
	}
	if best < 0 {
		return 0, false
	}
	return a.timeOf(best, durationMS), true
}

// NearestSilence returns the time of the first point in the search window
// around timeMS that is quieter than threshold.
func (a *Analyzer) NearestSilence(timeMS, durationMS int64, threshold float32) (int64, bool) {
	lo, hi, ok := a.window(timeMS, durationMS)
	if !ok {
		return 0, false
	}

	for i := lo; i < hi; i++ {
		if a.envelope[i] < threshold {
			return a.timeOf(i, durationMS), true
		}
	}
	return 0, false
}
