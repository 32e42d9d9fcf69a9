package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuisplit/internal/model"
)

func testRun() *model.Run {
	return model.NewRun("Celeste", "Any%", model.Time{}, model.Recorded(61_500), []string{"City", "Old Site"},
		[]model.Time{model.Recorded(30_000), model.Recorded(31_500)},
		[]model.Time{model.Recorded(29_000), model.Recorded(30_000)},
		[]model.SumTime{{Attempts: 2, Total: model.Recorded(61_000)}, {Attempts: 1, Total: model.Recorded(31_500)}},
	)
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 5, 7}, MovingAverage([]float64{2, 4, 6, 8}, 2))
}

func TestSparklineFlat(t *testing.T) {
	assert.Equal(t, "+++", Sparkline([]float64{3, 3, 3}))
	assert.Equal(t, " @", Sparkline([]float64{0, 10}))
}

func TestSummarize(t *testing.T) {
	attempts := []model.AttemptAggregate{
		{Finished: true, TotalMs: 70_000},
		{Finished: false, TotalMs: 20_000},
		{Finished: true, TotalMs: 61_500, PersonalBest: true},
	}
	s := Summarize(testRun(), attempts)
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, 2, s.Finished)
	assert.Equal(t, 1, s.PBs)
	assert.EqualValues(t, 61_500, s.BestMs)
	assert.EqualValues(t, 65_750, s.MeanMs)
	assert.EqualValues(t, 59_000, s.SumOfBest)
}

func TestRenderSplitTable(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.SplitAggregate{{Index: 1, Name: "Old Site", Count: 1, Skipped: 2, BestMs: 31_500}}
	require.NoError(t, RenderSplitTable(&buf, testRun(), aggs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, buf.String())
	assert.True(t, strings.HasPrefix(lines[1], "City"), lines[1])
	assert.Contains(t, lines[1], "30.5")
	assert.True(t, strings.HasSuffix(lines[2], "31.5"), lines[2])
	assert.Contains(t, lines[2], " 2 ")
}

func TestRenderSummaryAndCurve(t *testing.T) {
	var buf bytes.Buffer
	attempts := []model.AttemptAggregate{
		{Finished: true, TotalMs: 70_000},
		{Finished: true, TotalMs: 61_500, PersonalBest: true},
	}
	require.NoError(t, RenderSummary(&buf, testRun(), attempts))
	require.NoError(t, RenderCurve(&buf, attempts, 1, 0))
	out := buf.String()
	for _, want := range []string{"Celeste - Any%", "Sum of best:   59.0", "Finished:      2 (100.0%)", "Best finish:   1:01.500", "latest 1:01.500"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	require.NoError(t, RenderCurve(&buf, nil, 5, 0))
	assert.Contains(t, buf.String(), "No finished attempts.")
}
