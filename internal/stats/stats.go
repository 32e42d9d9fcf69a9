// Package stats contains attempt statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/timefmt"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Summary condenses attempt history.
type Summary struct {
	Attempts  int
	Finished  int
	BestMs    int64
	MeanMs    int64
	PBs       int
	SumOfBest uint64
}

// Summarize computes a Summary from attempts and the run record.
func Summarize(run *model.Run, attempts []model.AttemptAggregate) Summary {
	s := Summary{Attempts: len(attempts), SumOfBest: run.SumOfBest()}
	var total int64
	for _, a := range attempts {
		if a.PersonalBest {
			s.PBs++
		}
		if !a.Finished {
			continue
		}
		s.Finished++
		total += a.TotalMs
		if s.BestMs == 0 || a.TotalMs < s.BestMs {
			s.BestMs = a.TotalMs
		}
	}
	if s.Finished > 0 {
		s.MeanMs = total / int64(s.Finished)
	}
	return s
}

// RenderSummary prints the attempt summary for run.
func RenderSummary(w io.Writer, run *model.Run, attempts []model.AttemptAggregate) error {
	s := Summarize(run, attempts)
	if _, err := fmt.Fprintf(w, "%s - %s\n", run.GameTitle(), run.Category()); err != nil {
		return err
	}
	lines := [][2]string{
		{"Personal best", formatOptional(run.PersonalBest().Val())},
		{"Sum of best", formatOptional(s.SumOfBest)},
		{"Attempts", fmt.Sprintf("%d", s.Attempts)},
		{"Finished", fmt.Sprintf("%d (%.1f%%)", s.Finished, completion(s))},
		{"New PBs", fmt.Sprintf("%d", s.PBs)},
	}
	if s.Finished > 0 {
		lines = append(lines,
			[2]string{"Best finish", timefmt.FormatTime(uint64(s.BestMs), false)},
			[2]string{"Mean finish", timefmt.FormatTime(uint64(s.MeanMs), false)},
		)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-14s %s\n", l[0]+":", l[1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSplitTable prints one row per split with the stored record and the
// recorded history for that split.
func RenderSplitTable(w io.Writer, run *model.Run, aggs []model.SplitAggregate) error {
	byIndex := make(map[int]model.SplitAggregate, len(aggs))
	for _, agg := range aggs {
		byIndex[agg.Index] = agg
	}
	pb, gold, sums := run.PBTimes(), run.GoldTimes(), run.SumTimes()
	cols := []column{
		{title: "Split", max: maxSplitNameWidth},
		{title: "PB", right: true},
		{title: "Gold", right: true},
		{title: "Average", right: true},
		{title: "Runs", right: true},
		{title: "Skips", right: true},
		{title: "Best Seen", right: true},
	}
	rows := make([][]string, 0, run.Len())
	for i, name := range run.SplitNames() {
		agg := byIndex[i]
		rows = append(rows, []string{
			name,
			formatOptional(pb[i].Raw()),
			formatOptional(gold[i].Raw()),
			formatOptional(sums[i].Average()),
			fmt.Sprintf("%d", sums[i].Attempts),
			fmt.Sprintf("%d", agg.Skipped),
			formatOptional(uint64(agg.BestMs)),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurve prints a sparkline of finished totals smoothed over window,
// limited to the last width attempts when width is positive.
func RenderCurve(w io.Writer, attempts []model.AttemptAggregate, window, width int) error {
	var totals []float64
	for _, a := range attempts {
		if a.Finished {
			totals = append(totals, float64(a.TotalMs))
		}
	}
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No finished attempts.")
		return err
	}
	smoothed := MovingAverage(totals, window)
	if width > 0 && len(smoothed) > width {
		smoothed = smoothed[len(smoothed)-width:]
	}
	if _, err := fmt.Fprintf(w, "Finish times (moving average, window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(smoothed)); err != nil {
		return err
	}
	last := smoothed[len(smoothed)-1]
	_, err := fmt.Fprintf(w, "latest %s\n", timefmt.FormatTime(uint64(last), false))
	return err
}

func formatOptional(ms uint64) string {
	if ms == 0 {
		return "-"
	}
	return timefmt.FormatSplit(ms)
}

func completion(s Summary) float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Finished) / float64(s.Attempts) * 100
}
