package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// ParseTimestamp reads HH:MM:SS,mmm or HH:MM:SS.mmm into milliseconds.
// The fractional part is right-padded to three digits and cut at three.
func ParseTimestamp(ts string) (int64, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(ts), ",", ".")
	parts := strings.Split(trimmed, ":")
	if len(parts) != 3 {
		return 0, &ParseError{Field: "timestamp", Value: ts}
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, &ParseError{Field: "hours", Value: parts[0]}
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, &ParseError{Field: "minutes", Value: parts[1]}
	}

	secStr, fracStr, hasFrac := strings.Cut(parts[2], ".")
	seconds, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: "seconds", Value: secStr}
	}

	var millis int64
	if hasFrac {
		padded := (fracStr + "000")[:3]
		millis, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, &ParseError{Field: "milliseconds", Value: fracStr}
		}
	}

	return hours*msPerHour + minutes*msPerMinute + seconds*msPerSecond + millis, nil
}

// FormatTimestamp renders HH:MM:SS<sep>mmm. Negative input renders as zero.
func FormatTimestamp(ms int64, sep byte) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	millis := ms % msPerSecond

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

// SubRip notation, comma separator
func FormatSRTTimestamp(ms int64) string {
	return FormatTimestamp(ms, ',')
}

// WebVTT notation, dot separator
func FormatVTTTimestamp(ms int64) string {
	return FormatTimestamp(ms, '.')
}

// H:MM:SS.cc as used by ASS/SSA
func FormatASSTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	centis := (ms % msPerSecond) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// HH:MM:SS:FF non-drop-frame timecode
func FormatEDLTimecode(ms int64, fps int) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	frames := (ms % msPerSecond) * int64(fps) / msPerSecond

	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
