// Package stats contains attempt statistics and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts  []model.AttemptAggregate
	SplitAggs []model.SplitAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}

	aggs, err := st.ListSplitAggregates(ctx, attemptIDs(attempts))
	if err != nil {
		return Report{}, err
	}
	return Report{
		Attempts:  attempts,
		SplitAggs: aggs,
	}, nil
}

func attemptIDs(attempts []model.AttemptAggregate) []string {
	ids := make([]string, len(attempts))
	for i, a := range attempts {
		ids[i] = a.AttemptID
	}
	return ids
}
