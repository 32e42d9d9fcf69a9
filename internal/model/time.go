package model

// TimeKind tags the variant held by a Time.
type TimeKind uint8

const (
	// TimeUnset marks a segment that has never been timed.
	TimeUnset TimeKind = iota
	// TimeRecorded marks a timed segment.
	TimeRecorded
	// TimeSkipped marks a segment the runner explicitly did not time.
	TimeSkipped
)

// Time is a segment duration in whole milliseconds. The zero value is unset,
// which is distinct from a recorded zero.
type Time struct {
	Kind TimeKind
	Ms   uint64
}

// NewTime returns a recorded time for ms, or an unset time when ms is zero.
func NewTime(ms uint64) Time {
	if ms == 0 {
		return Time{}
	}
	return Time{Kind: TimeRecorded, Ms: ms}
}

// TimeFromPtr converts an optional duration.
func TimeFromPtr(ms *uint64) Time {
	if ms == nil {
		return Time{}
	}
	return NewTime(*ms)
}

// Recorded returns a recorded time, keeping zero as a legal value.
func Recorded(ms uint64) Time {
	return Time{Kind: TimeRecorded, Ms: ms}
}

// Skipped returns a skipped time carrying ms as a placeholder.
func Skipped(ms uint64) Time {
	return Time{Kind: TimeSkipped, Ms: ms}
}

// IsSet reports whether the time is recorded or skipped.
func (t Time) IsSet() bool {
	return t.Kind != TimeUnset
}

// IsSkipped reports whether the segment was skipped.
func (t Time) IsSkipped() bool {
	return t.Kind == TimeSkipped
}

// Raw returns the magnitude, 0 when unset.
func (t Time) Raw() uint64 {
	if t.Kind == TimeUnset {
		return 0
	}
	return t.Ms
}

// Val returns the magnitude only for recorded times. Skipped and unset
// times are display placeholders and count as 0 towards sums.
func (t Time) Val() uint64 {
	if t.Kind != TimeRecorded {
		return 0
	}
	return t.Ms
}

// Add adds ms in place. Unset promotes to recorded.
func (t *Time) Add(ms uint64) {
	if t.Kind == TimeUnset {
		t.Kind = TimeRecorded
		t.Ms = 0
	}
	t.Ms += ms
}

// Sub subtracts ms in place, saturating at zero. Unset stays unset.
func (t *Time) Sub(ms uint64) {
	if t.Kind == TimeUnset {
		return
	}
	if ms > t.Ms {
		t.Ms = 0
		return
	}
	t.Ms -= ms
}

// Div divides the magnitude by count. Unset and a zero count yield 0.
func (t Time) Div(count uint64) uint64 {
	if t.Kind == TimeUnset || count == 0 {
		return 0
	}
	return t.Ms / count
}

// SumTime is the running attempt count and total duration of one segment.
type SumTime struct {
	Attempts uint64
	Total    Time
}

// Average returns total / max(attempts, 1).
func (s SumTime) Average() uint64 {
	attempts := s.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return s.Total.Div(attempts)
}
