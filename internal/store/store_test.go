package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuisplit/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuisplit.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListAttempts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0).UTC()
	var ids []string
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		attempt := model.Attempt{
			RunKey:       "Celeste/Any%",
			StartedAt:    start,
			EndedAt:      start.Add(time.Minute),
			Finished:     i != 1,
			TotalMs:      int64(60_000 - i*1_000),
			PersonalBest: i == 2,
		}
		splits := []model.AttemptSplit{
			{Index: 0, Name: "a", TimeMs: int64(20_000 + i*100), Gold: i == 0},
			{Index: 1, Name: "b", TimeMs: 0, Skipped: i == 1},
		}
		id, err := st.InsertAttempt(ctx, attempt, splits)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := st.InsertAttempt(ctx, model.Attempt{RunKey: "Other/100%", StartedAt: base, EndedAt: base}, nil)
	require.NoError(t, err)

	attempts, err := st.ListAttempts(ctx, model.StatsConfig{RunKey: "Celeste/Any%"})
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	require.Equal(t, ids[0], attempts[0].AttemptID)
	require.True(t, attempts[0].Finished)
	require.False(t, attempts[1].Finished)
	require.True(t, attempts[2].PersonalBest)
	require.Equal(t, int64(58_000), attempts[2].TotalMs)

	since := base.Add(90 * time.Minute)
	recent, err := st.ListAttempts(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)

	aggs, err := st.ListSplitAggregates(ctx, ids)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	require.Equal(t, model.SplitAggregate{Index: 0, Name: "a", Count: 3, SumMs: 60_300, BestMs: 20_000}, aggs[0])
	require.Equal(t, 2, aggs[1].Count)
	require.Equal(t, 1, aggs[1].Skipped)
}

func TestListSplitAggregatesEmpty(t *testing.T) {
	st := openTestStore(t)
	aggs, err := st.ListSplitAggregates(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, aggs)
}

func TestNewAttemptIDSortsByTime(t *testing.T) {
	a := NewAttemptID(time.Unix(100, 0))
	b := NewAttemptID(time.Unix(200, 0))
	require.Len(t, a, 26)
	require.Less(t, a, b)
}
