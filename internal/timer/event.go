package timer

import "github.com/verte-zerg/tuisplit/internal/model"

// Phase is the timer phase.
type Phase uint8

const (
	NotRunning Phase = iota
	Offset
	Running
	Paused
	Finished
)

func (p Phase) String() string {
	switch p {
	case NotRunning:
		return "not running"
	case Offset:
		return "offset"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Request is a timing action queued by the input layer.
type Request uint8

const (
	RequestPause Request = iota
	RequestSplit
	RequestSkip
	RequestUnsplit
	RequestReset
	RequestNextComparison
	RequestPrevComparison
)

// Event is a discrete change emitted by State.Update.
type Event interface {
	isEvent()
}

// EnterOffset is emitted when the start countdown begins.
type EnterOffset struct{}

// EnterSplit is emitted when the split at Index becomes current.
type EnterSplit struct {
	Index int
}

// ExitSplit is emitted when the split at Index is recorded or skipped.
type ExitSplit struct {
	Index  int
	Status Status
	Time   model.Time
	Diff   int64
}

// Unsplit is emitted when the split at Index is undone and becomes current again.
type Unsplit struct {
	Index int
}

// Finish is emitted after the last split.
type Finish struct{}

// Pause is emitted when the timer pauses.
type Pause struct{}

// Unpause is emitted when the timer resumes, with the live status at that time.
type Unpause struct {
	Status Status
}

// Reset is emitted on reset and carries the run offset so the caller can
// re-arm the countdown display.
type Reset struct {
	Offset model.Time
}

// ComparisonChanged is emitted when the active comparison changes.
type ComparisonChanged struct {
	Comparison Comparison
}

func (EnterOffset) isEvent()       {}
func (EnterSplit) isEvent()        {}
func (ExitSplit) isEvent()         {}
func (Unsplit) isEvent()           {}
func (Finish) isEvent()            {}
func (Pause) isEvent()             {}
func (Unpause) isEvent()           {}
func (Reset) isEvent()             {}
func (ComparisonChanged) isEvent() {}

// Update is the per-tick result of State.Update. Time is the attempt time in
// milliseconds, or the remaining countdown while InOffset is set.
type Update struct {
	Time     uint64
	Status   Status
	InOffset bool
	Events   []Event
}
