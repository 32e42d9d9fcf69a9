package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/store"
)

func testRun() *model.Run {
	return model.NewRun("Celeste", "Any%", model.Time{}, model.Recorded(30_000), []string{"City", "Old Site"},
		[]model.Time{model.Recorded(10_000), model.Recorded(20_000)},
		[]model.Time{model.Recorded(9_000), model.Recorded(19_000)},
		nil,
	)
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tuisplit.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestCurveWindowSteps(t *testing.T) {
	assert.Equal(t, 5, nextCurveWindow(1))
	assert.Equal(t, 10, nextCurveWindow(5))
	assert.Equal(t, 10, nextCurveWindow(7))
	assert.Equal(t, 1, prevCurveWindow(5))
	assert.Equal(t, 5, prevCurveWindow(7))
	assert.Equal(t, 10, prevCurveWindow(15))
}

func TestSplitRows(t *testing.T) {
	rows := splitRows(testRun(), []model.SplitAggregate{{Index: 1, Count: 3, Skipped: 1, BestMs: 18_500}})
	require.Len(t, rows, 2)
	assert.Equal(t, "City", rows[0][0])
	assert.Equal(t, "10.000", rows[0][1])
	assert.Equal(t, "-", rows[0][3])
	assert.Equal(t, "0", rows[0][4])
	assert.Equal(t, []string{"Old Site", "20.000", "19.000", "-", "3", "1", "18.500"}, []string(rows[1]))
}

func TestModelRendersHistory(t *testing.T) {
	st := openStore(t)
	start := time.Unix(0, 0).UTC()
	_, err := st.InsertAttempt(context.Background(), model.Attempt{
		RunKey:    "Celeste/Any%",
		StartedAt: start,
		EndedAt:   start.Add(31 * time.Second),
		Finished:  true,
		TotalMs:   31_000,
	}, []model.AttemptSplit{{Index: 0, Name: "City", TimeMs: 11_000}, {Index: 1, Name: "Old Site", TimeMs: 20_000}})
	require.NoError(t, err)

	m := NewModel(st, testRun(), model.StatsConfig{RunKey: "Celeste/Any%", CurveWindow: 5})
	require.Empty(t, m.errMsg)
	require.Len(t, m.report.Attempts, 1)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Celeste/Any%")
	assert.Contains(t, view, "Attempts")
	assert.Contains(t, view, "31.000")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabSplits, m.activeTab)
	assert.True(t, strings.Contains(m.View(), "Old Site"))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	assert.Equal(t, 10, m.cfg.CurveWindow)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
}

func TestModelWithoutAttempts(t *testing.T) {
	m := NewModel(openStore(t), testRun(), model.StatsConfig{RunKey: "Celeste/Any%", CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.View(), "No attempts found.")
}
