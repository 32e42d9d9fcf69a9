// Package stats contains attempt statistics and reporting.
package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxSplitNameWidth caps the split name column; longer names are cut with an ellipsis.
const maxSplitNameWidth = 24

type column struct {
	title string
	right bool
	// max caps the column width when positive.
	max int
}

func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	for i, c := range cols {
		if c.max > 0 && widths[i] > c.max {
			widths[i] = c.max
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(cols, widths, titles))
	for _, row := range rows {
		lines = append(lines, formatRow(cols, widths, row))
	}
	return lines
}

func formatRow(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		value := ""
		if i < len(row) {
			value = runewidth.Truncate(row[i], widths[i], "…")
		}
		if c.right {
			cells[i] = runewidth.FillLeft(value, widths[i])
		} else {
			cells[i] = runewidth.FillRight(value, widths[i])
		}
	}
	return strings.Join(cells, " ")
}
