package stats

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Split"}, {title: "PB", right: true}, {title: "Runs", right: true}}
	rows := [][]string{
		{"City", "1:05.4", "12"},
		{"Old Site", "58.2", "3"},
	}

	lines := formatTable(cols, rows)
	require.Len(t, lines, 3)
	assert.Equal(t, "Split        PB Runs", lines[0])
	assert.Equal(t, "City     1:05.4   12", lines[1])
	assert.Equal(t, "Old Site   58.2    3", lines[2])
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]column{{title: "Split"}, {title: "PB", right: true}}, [][]string{{"日本", "1.0"}})
	assert.Equal(t, "日本  1.0", lines[1])
}

func TestFormatTableCapsSplitNames(t *testing.T) {
	cols := []column{{title: "Split", max: maxSplitNameWidth}, {title: "PB", right: true}}
	lines := formatTable(cols, [][]string{
		{"Mirror Temple (B-Side Cassette)", "1.0"},
		{"City", "2.0"},
	})
	require.Len(t, lines, 3)
	assert.Equal(t, "Mirror Temple (B-Side C… 1.0", lines[1])
	assert.Equal(t, runewidth.StringWidth(lines[1]), runewidth.StringWidth(lines[0]))
	assert.Equal(t, runewidth.StringWidth(lines[1]), runewidth.StringWidth(lines[2]))
}

func TestFormatTableNoColumns(t *testing.T) {
	assert.Nil(t, formatTable(nil, [][]string{{"a"}}))
}
