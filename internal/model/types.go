// Package model defines shared data structures.
package model

import "time"

// Config defines timer session settings.
type Config struct {
	SplitsPath    string
	Comparison    string
	FrameRounding bool
	TickMs        int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	RunKey      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Attempt captures one attempt at a run, finished or reset.
type Attempt struct {
	RunKey       string
	StartedAt    time.Time
	EndedAt      time.Time
	Finished     bool
	TotalMs      int64
	PersonalBest bool
}

// AttemptSplit stores one recorded segment of an attempt.
type AttemptSplit struct {
	Index   int
	Name    string
	TimeMs  int64
	Skipped bool
	Gold    bool
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID    string
	EndedAt      time.Time
	Finished     bool
	TotalMs      int64
	PersonalBest bool
}

// SplitAggregate aggregates recorded segment times across attempts.
type SplitAggregate struct {
	Index   int
	Name    string
	Count   int
	Skipped int
	SumMs   int64
	BestMs  int64
}
