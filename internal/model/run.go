package model

import "fmt"

// Run is the record of a speedrun category: split names, the personal best
// series, best segments and per-segment attempt sums. Every series holds
// exactly one entry per split name.
type Run struct {
	gameTitle    string
	category     string
	offset       Time
	personalBest Time
	splitNames   []string
	pbTimes      []Time
	goldTimes    []Time
	sumTimes     []SumTime
}

// NewRun builds a run. Series shorter than names are padded with neutral
// entries and longer ones are truncated.
func NewRun(gameTitle, category string, offset, personalBest Time, names []string, pb, gold []Time, sums []SumTime) *Run {
	r := &Run{
		gameTitle:    gameTitle,
		category:     category,
		offset:       offset,
		personalBest: personalBest,
	}
	r.SetTimes(names, pb, gold, sums)
	return r
}

// GameTitle returns the game name.
func (r *Run) GameTitle() string { return r.gameTitle }

// Category returns the category name.
func (r *Run) Category() string { return r.category }

// Key identifies the run in attempt history.
func (r *Run) Key() string { return r.gameTitle + "/" + r.category }

// Offset returns the start countdown, unset when the run has none.
func (r *Run) Offset() Time { return r.offset }

// PersonalBest returns the best completed total.
func (r *Run) PersonalBest() Time { return r.personalBest }

// Len returns the number of splits.
func (r *Run) Len() int { return len(r.splitNames) }

// SplitNames returns the split names.
func (r *Run) SplitNames() []string { return r.splitNames }

// PBTimes returns the segment times of the personal best.
func (r *Run) PBTimes() []Time { return r.pbTimes }

// GoldTimes returns the best segment times.
func (r *Run) GoldTimes() []Time { return r.goldTimes }

// SumTimes returns the per-segment attempt sums.
func (r *Run) SumTimes() []SumTime { return r.sumTimes }

// SumOfBest returns the total of all gold segments.
func (r *Run) SumOfBest() uint64 {
	var total uint64
	for _, g := range r.goldTimes {
		total += g.Raw()
	}
	return total
}

// HasPBSeries reports whether any personal best segment has been recorded.
func (r *Run) HasPBSeries() bool {
	for _, t := range r.pbTimes {
		if t.Raw() > 0 {
			return true
		}
	}
	return false
}

// SetTimes replaces names and every per-split series.
func (r *Run) SetTimes(names []string, pb, gold []Time, sums []SumTime) {
	n := len(names)
	r.splitNames = append([]string(nil), names...)
	r.pbTimes = padTimes(pb, n)
	r.goldTimes = padTimes(gold, n)
	r.sumTimes = make([]SumTime, n)
	copy(r.sumTimes, sums)
}

// SetOffset sets the start countdown.
func (r *Run) SetOffset(offset Time) { r.offset = offset }

// SetGold sets the best segment at idx.
func (r *Run) SetGold(idx int, t Time) {
	r.mustIndex(idx)
	r.goldTimes[idx] = t
}

// SetSum sets the attempt sum at idx.
func (r *Run) SetSum(idx int, s SumTime) {
	r.mustIndex(idx)
	r.sumTimes[idx] = s
}

// SetPersonalBest sets the best completed total.
func (r *Run) SetPersonalBest(t Time) { r.personalBest = t }

// SetPBTimes replaces the personal best segment series. The length must
// match the split count.
func (r *Run) SetPBTimes(times []Time) {
	if len(times) != len(r.splitNames) {
		panic(fmt.Sprintf("model: pb series has %d entries, run has %d splits", len(times), len(r.splitNames)))
	}
	r.pbTimes = append([]Time(nil), times...)
}

func (r *Run) mustIndex(idx int) {
	if idx < 0 || idx >= len(r.splitNames) {
		panic(fmt.Sprintf("model: split index %d out of range [0,%d)", idx, len(r.splitNames)))
	}
}

func padTimes(times []Time, n int) []Time {
	out := make([]Time, n)
	copy(out, times)
	return out
}
