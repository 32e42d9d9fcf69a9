package timer

import (
	"fmt"

	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/timefmt"
)

// Status is the live pace classification.
type Status uint8

const (
	StatusNone Status = iota
	StatusAhead
	StatusBehind
	StatusGaining
	StatusLosing
	StatusGold
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusAhead:
		return "ahead"
	case StatusBehind:
		return "behind"
	case StatusGaining:
		return "gaining"
	case StatusLosing:
		return "losing"
	case StatusGold:
		return "gold"
	}
	return "unknown"
}

// Pace classifies elapsed time in the current split against the segment
// time allowed by the comparison. buffer is the signed difference carried
// from the previous split: negative when the runner arrived ahead.
//
// Ahead of the comparison (buffer < 0) the runner is Losing once the split
// takes longer than the comparison segment and Behind once the whole lead is
// gone. Behind or even (buffer >= 0) the runner is Gaining while the split
// is under the comparison segment but the deficit is not yet recovered.
// Landing exactly on the comparison counts as Ahead.
func Pace(buffer int64, elapsed, segment uint64) Status {
	if segment == 0 {
		return StatusAhead
	}
	seg := int64(segment)
	allowed := seg - buffer
	e := int64(elapsed)
	if buffer < 0 {
		switch {
		case e > allowed:
			return StatusBehind
		case e > seg:
			return StatusLosing
		default:
			return StatusAhead
		}
	}
	switch {
	case e <= allowed:
		return StatusAhead
	case e < allowed+buffer:
		return StatusGaining
	default:
		return StatusBehind
	}
}

// SegmentTime returns the comparison time for the split at idx.
func SegmentTime(run *model.Run, c Comparison, idx int) uint64 {
	switch c {
	case Average:
		return run.SumTimes()[idx].Average()
	case PersonalBest:
		return run.PBTimes()[idx].Raw()
	case Golds:
		return run.GoldTimes()[idx].Raw()
	case None:
		return 0
	}
	panic(fmt.Sprintf("timer: invalid comparison %d", uint8(c)))
}

// HasComparison reports whether every segment through idx has comparison
// data, so the cumulative total at idx is a real time.
func HasComparison(run *model.Run, c Comparison, idx int) bool {
	if c == None {
		return false
	}
	for i := 0; i <= idx; i++ {
		if SegmentTime(run, c, i) == 0 {
			return false
		}
	}
	return true
}

// ComparisonTotals returns the cumulative comparison time through every split.
func ComparisonTotals(run *model.Run, c Comparison) []uint64 {
	segments := make([]uint64, run.Len())
	for i := range segments {
		segments[i] = SegmentTime(run, c, i)
	}
	return timefmt.PrefixSum(segments)
}
