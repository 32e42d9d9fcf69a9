package timer

import (
	"fmt"
	"time"

	"github.com/verte-zerg/tuisplit/internal/model"
)

type undoEntry struct {
	segment uint64
	gold    model.Time
	sum     model.SumTime
}

type pendingPB struct {
	total uint64
	times []model.Time
}

// State is the run-timing state machine. It is driven by one Update call per
// frame and is the only writer of the Run it is bound to.
type State struct {
	run   *model.Run
	clock Clock

	phase      Phase
	pausedFrom Phase
	comparison Comparison
	current    int
	status     Status

	runTimes    []model.Time
	runDiffs    []int64
	splitTotals []uint64
	undo        []undoEntry

	// Clock readings in ms.
	startAt     uint64
	splitAt     uint64
	lastReading uint64

	beforePause      uint64
	beforePauseSplit uint64
	finalTime        uint64

	pending   *pendingPB
	needsSave bool
	dirty     bool
}

// New binds a state machine to run, starting NotRunning.
func New(run *model.Run, clock Clock, comparison Comparison) *State {
	return &State{
		run:        run,
		clock:      clock,
		comparison: comparison,
	}
}

// Update applies requests in order and returns the tick result.
func (s *State) Update(requests []Request) Update {
	now := s.read()
	s.ApplyPending()

	var events []Event
	for _, req := range requests {
		events = s.handle(req, now, events)
	}

	if s.phase == Offset && s.countdownElapsed(now) >= s.run.Offset().Raw() {
		events = s.enterRunning(now, events)
	}

	s.status = s.liveStatus(now)

	up := Update{Status: s.status, Events: events}
	if s.inOffset() {
		up.InOffset = true
		up.Time = s.countdownRemaining(now)
	} else {
		up.Time = s.attemptTime(now)
	}
	return up
}

// ApplyPending writes a staged personal best into the run. Update calls it
// at the start of every tick; persistence calls it before saving.
func (s *State) ApplyPending() {
	if s.pending == nil {
		return
	}
	s.run.SetPersonalBest(model.Recorded(s.pending.total))
	s.run.SetPBTimes(s.pending.times)
	s.pending = nil
	s.dirty = true
}

// NeedsSave reports whether a gold or personal best was set since the last save.
func (s *State) NeedsSave() bool { return s.needsSave }

// PendingPersonalBest reports whether the finished attempt is a staged
// personal best not yet written into the run.
func (s *State) PendingPersonalBest() bool { return s.pending != nil }

// Dirty reports whether the run changed at all since the last save,
// including attempt sums.
func (s *State) Dirty() bool { return s.dirty || s.needsSave }

// MarkSaved clears the save flags after a successful write.
func (s *State) MarkSaved() {
	s.needsSave = false
	s.dirty = false
}

// IsRunning reports whether an attempt is in progress.
func (s *State) IsRunning() bool {
	switch s.phase {
	case Offset, Running, Paused:
		return true
	}
	return false
}

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// CurrentSplit returns the index of the split being timed.
func (s *State) CurrentSplit() int { return s.current }

// Comparison returns the active comparison.
func (s *State) Comparison() Comparison { return s.comparison }

// Status returns the status computed by the last Update.
func (s *State) Status() Status { return s.status }

// Run returns the bound run.
func (s *State) Run() *model.Run { return s.run }

// RunTimes returns the segments recorded this attempt.
func (s *State) RunTimes() []model.Time {
	return append([]model.Time(nil), s.runTimes...)
}

// SplitTotals returns a copy of the attempt time at each completed split.
func (s *State) SplitTotals() []uint64 {
	return append([]uint64(nil), s.splitTotals...)
}

// RunDiffs returns the cumulative differences against the comparison for
// each recorded split.
func (s *State) RunDiffs() []int64 {
	return append([]int64(nil), s.runDiffs...)
}

func (s *State) read() uint64 {
	elapsed := s.clock.Elapsed()
	if elapsed < 0 {
		panic(fmt.Sprintf("timer: clock returned negative elapsed time %v", elapsed))
	}
	ms := uint64(elapsed / time.Millisecond)
	if ms < s.lastReading {
		panic(fmt.Sprintf("timer: clock went backwards from %dms to %dms", s.lastReading, ms))
	}
	s.lastReading = ms
	return ms
}

func (s *State) handle(req Request, now uint64, events []Event) []Event {
	switch req {
	case RequestSplit:
		switch s.phase {
		case NotRunning:
			return s.start(now, events)
		case Running:
			return s.split(now, false, events)
		}
	case RequestSkip:
		if s.phase == Running {
			return s.split(now, true, events)
		}
	case RequestPause:
		switch s.phase {
		case Running, Offset:
			return s.pause(now, events)
		case Paused:
			return s.unpause(now, events)
		}
	case RequestUnsplit:
		if s.phase == Running && s.current > 0 {
			return s.unsplit(events)
		}
	case RequestReset:
		return s.reset(events)
	case RequestNextComparison:
		s.comparison.Next()
		s.recomputeDiffs()
		return append(events, ComparisonChanged{Comparison: s.comparison})
	case RequestPrevComparison:
		s.comparison.Prev()
		s.recomputeDiffs()
		return append(events, ComparisonChanged{Comparison: s.comparison})
	}
	return events
}

func (s *State) start(now uint64, events []Event) []Event {
	s.startAt = now
	s.beforePause = 0
	if s.run.Offset().Raw() > 0 {
		s.phase = Offset
		return append(events, EnterOffset{})
	}
	return s.enterRunning(now, events)
}

func (s *State) enterRunning(now uint64, events []Event) []Event {
	s.phase = Running
	s.startAt = now
	s.splitAt = now
	s.beforePause = 0
	s.beforePauseSplit = 0
	s.current = 0
	return append(events, EnterSplit{Index: 0})
}

func (s *State) pause(now uint64, events []Event) []Event {
	s.beforePause += now - s.startAt
	if s.phase == Running {
		s.beforePauseSplit += now - s.splitAt
	}
	s.pausedFrom = s.phase
	s.phase = Paused
	return append(events, Pause{})
}

func (s *State) unpause(now uint64, events []Event) []Event {
	s.startAt = now
	s.splitAt = now
	s.phase = s.pausedFrom
	return append(events, Unpause{Status: s.liveStatus(now)})
}

func (s *State) split(now uint64, skip bool, events []Event) []Event {
	idx := s.current
	segment := s.splitElapsed(now)
	total := s.attemptTime(now)
	s.splitAt = now
	s.beforePauseSplit = 0

	gold := s.run.GoldTimes()[idx]
	sum := s.run.SumTimes()[idx]
	s.undo = append(s.undo, undoEntry{segment: segment, gold: gold, sum: sum})

	exit := ExitSplit{Index: idx}
	if skip {
		exit.Time = model.Skipped(0)
	} else {
		exit.Time = model.Recorded(segment)
		exit.Diff = s.diffAt(total, idx)
		exit.Status = s.pace(s.buffer(), segment, total, idx)
		if gold.Raw() == 0 || segment < gold.Raw() {
			s.run.SetGold(idx, model.Recorded(segment))
			exit.Status = StatusGold
			s.needsSave = true
		}
		sum.Attempts++
		sum.Total.Add(segment)
		s.run.SetSum(idx, sum)
		s.dirty = true
	}

	s.runTimes = append(s.runTimes, exit.Time)
	s.runDiffs = append(s.runDiffs, exit.Diff)
	s.splitTotals = append(s.splitTotals, total)
	events = append(events, exit)

	if idx == s.run.Len()-1 {
		s.finish(total)
		return append(events, Finish{})
	}
	s.current++
	return append(events, EnterSplit{Index: s.current})
}

func (s *State) finish(total uint64) {
	s.phase = Finished
	s.finalTime = total
	pb := s.run.PersonalBest()
	if pb.IsSet() && total >= pb.Raw() {
		return
	}
	s.pending = &pendingPB{
		total: total,
		times: append([]model.Time(nil), s.runTimes...),
	}
	s.needsSave = true
}

func (s *State) unsplit(events []Event) []Event {
	last := len(s.runTimes) - 1
	entry := s.undo[last]
	idx := s.current - 1

	s.run.SetGold(idx, entry.gold)
	s.run.SetSum(idx, entry.sum)
	s.runTimes = s.runTimes[:last]
	s.runDiffs = s.runDiffs[:last]
	s.splitTotals = s.splitTotals[:last]
	s.undo = s.undo[:last]
	s.beforePauseSplit += entry.segment
	s.current = idx
	return append(events, Unsplit{Index: idx})
}

func (s *State) reset(events []Event) []Event {
	s.phase = NotRunning
	s.pausedFrom = NotRunning
	s.current = 0
	s.status = StatusNone
	s.runTimes = nil
	s.runDiffs = nil
	s.splitTotals = nil
	s.undo = nil
	s.startAt = 0
	s.splitAt = 0
	s.beforePause = 0
	s.beforePauseSplit = 0
	s.finalTime = 0
	return append(events, Reset{Offset: s.run.Offset()})
}

func (s *State) recomputeDiffs() {
	for i, t := range s.runTimes {
		if t.IsSkipped() {
			s.runDiffs[i] = 0
			continue
		}
		s.runDiffs[i] = s.diffAt(s.splitTotals[i], i)
	}
}

// diffAt returns the attempt total at split idx minus the cumulative
// comparison through idx, or 0 when any segment up to idx has no data.
func (s *State) diffAt(total uint64, idx int) int64 {
	if !HasComparison(s.run, s.comparison, idx) {
		return 0
	}
	totals := ComparisonTotals(s.run, s.comparison)
	return int64(total) - int64(totals[idx])
}

func (s *State) buffer() int64 {
	if len(s.runDiffs) == 0 {
		return 0
	}
	return s.runDiffs[len(s.runDiffs)-1]
}

func (s *State) pace(buffer int64, elapsed, total uint64, idx int) Status {
	if s.comparison == None {
		return StatusNone
	}
	if !s.run.HasPBSeries() {
		pb := s.run.PersonalBest()
		if !pb.IsSet() || total < pb.Raw() {
			return StatusAhead
		}
		return StatusBehind
	}
	return Pace(buffer, elapsed, SegmentTime(s.run, s.comparison, idx))
}

func (s *State) liveStatus(now uint64) Status {
	if s.phase != Running {
		return StatusNone
	}
	return s.pace(s.buffer(), s.splitElapsed(now), s.attemptTime(now), s.current)
}

func (s *State) attemptTime(now uint64) uint64 {
	switch s.phase {
	case Running:
		return s.beforePause + now - s.startAt
	case Paused:
		return s.beforePause
	case Finished:
		return s.finalTime
	}
	return 0
}

func (s *State) splitElapsed(now uint64) uint64 {
	return s.beforePauseSplit + now - s.splitAt
}

func (s *State) inOffset() bool {
	return s.phase == Offset || (s.phase == Paused && s.pausedFrom == Offset)
}

func (s *State) countdownElapsed(now uint64) uint64 {
	if s.phase == Paused {
		return s.beforePause
	}
	return s.beforePause + now - s.startAt
}

func (s *State) countdownRemaining(now uint64) uint64 {
	elapsed := s.countdownElapsed(now)
	offset := s.run.Offset().Raw()
	if elapsed >= offset {
		return 0
	}
	return offset - elapsed
}
