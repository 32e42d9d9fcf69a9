// Package timer implements the split timer state machine and pace engine.
package timer

import (
	"fmt"
	"strings"
)

// Comparison selects the series the live attempt is measured against.
type Comparison uint8

const (
	// Average compares against the historical per-segment average.
	Average Comparison = iota
	// PersonalBest compares against the personal best segments.
	PersonalBest
	// Golds compares against the best segments.
	Golds
	// None disables comparison.
	None

	comparisonCount = 4
)

// Next advances the comparison: Average, PersonalBest, Golds, None, Average.
func (c *Comparison) Next() {
	*c = (*c + 1) % comparisonCount
}

// Prev retreats the comparison through the same cycle.
func (c *Comparison) Prev() {
	*c = (*c + comparisonCount - 1) % comparisonCount
}

func (c Comparison) String() string {
	switch c {
	case Average:
		return "Average"
	case PersonalBest:
		return "Personal Best"
	case Golds:
		return "Best Segments"
	case None:
		return "None"
	}
	panic(fmt.Sprintf("timer: invalid comparison %d", uint8(c)))
}

// ParseComparison maps a config value to a Comparison.
func ParseComparison(value string) (Comparison, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "average", "avg":
		return Average, nil
	case "pb", "personal-best", "personalbest":
		return PersonalBest, nil
	case "golds", "gold", "best-segments":
		return Golds, nil
	case "none", "off":
		return None, nil
	}
	return None, fmt.Errorf("unknown comparison %q (expected average, pb, golds or none)", value)
}
