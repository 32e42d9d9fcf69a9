// Package timefmt formats split durations and sums segment series.
package timefmt

import (
	"fmt"
	"strings"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// FormatTime renders ms as H:MM:SS.mmm. The hour field is dropped when zero
// and the minute field when the duration is under a minute. With round set
// the milliseconds are first quantized to 30Hz frame buckets.
func FormatTime(ms uint64, round bool) string {
	if round {
		ms = Round30(ms)
	}
	var b strings.Builder
	writeClock(&b, ms)
	fmt.Fprintf(&b, ".%03d", ms%msPerSecond)
	return b.String()
}

// FormatDiff renders a signed difference truncated to tenths. Negative
// values (time gained) render with '-', everything else with '+'.
func FormatDiff(ms int64) string {
	sign := "+"
	mag := uint64(ms)
	if ms < 0 {
		sign = "-"
		mag = uint64(-ms)
	}
	return sign + FormatSplit(mag)
}

// FormatSplit renders ms truncated to tenths without a sign.
func FormatSplit(ms uint64) string {
	var b strings.Builder
	writeClock(&b, ms)
	fmt.Fprintf(&b, ".%d", (ms%msPerSecond)/100)
	return b.String()
}

// Round30 quantizes the sub-100ms part of ms to the 0/33/67 buckets of a
// 30Hz frame clock.
func Round30(ms uint64) uint64 {
	rem := ms % 100
	base := ms - rem
	switch {
	case rem <= 32:
		return base
	case rem <= 66:
		return base + 33
	default:
		return base + 67
	}
}

// PrefixSum returns the cumulative sums of times.
func PrefixSum(times []uint64) []uint64 {
	out := make([]uint64, len(times))
	var acc uint64
	for i, t := range times {
		acc += t
		out[i] = acc
	}
	return out
}

func writeClock(b *strings.Builder, ms uint64) {
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	switch {
	case hours > 0:
		fmt.Fprintf(b, "%d:%02d:%02d", hours, minutes, seconds)
	case ms >= msPerMinute:
		fmt.Fprintf(b, "%d:%02d", minutes, seconds)
	default:
		fmt.Fprintf(b, "%d", seconds)
	}
}
