package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "tuisplit.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		attempt := model.Attempt{
			RunKey:    "Celeste/Any%",
			StartedAt: start,
			EndedAt:   end,
			Finished:  true,
			TotalMs:   end.Sub(start).Milliseconds(),
		}
		splits := []model.AttemptSplit{
			{Index: 0, Name: "a", TimeMs: 10_000},
			{Index: 1, Name: "b", TimeMs: 20_000},
		}
		id, err := st.InsertAttempt(ctx, attempt, splits)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		RunKey:      "Celeste/Any%",
		Last:        2,
		CurveWindow: 2,
	}
	report, err := BuildReport(ctx, st, cfg)
	require.NoError(t, err)
	require.Len(t, report.Attempts, 2)
	assert.Equal(t, ids[1], report.Attempts[0].AttemptID)
	assert.Equal(t, ids[2], report.Attempts[1].AttemptID)
	require.Len(t, report.SplitAggs, 2)
	assert.Equal(t, 2, report.SplitAggs[1].Count)
	assert.EqualValues(t, 40_000, report.SplitAggs[1].SumMs)
}
