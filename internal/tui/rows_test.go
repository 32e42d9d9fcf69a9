package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFitNamePadsAndTruncates(t *testing.T) {
	assert.Equal(t, "City    ", fitName("City", 8))

	got := fitName("Forsaken City", 8)
	assert.Equal(t, 8, runewidth.StringWidth(got))
	assert.True(t, strings.HasPrefix(got, "Forsa"))

	wide := fitName("日本語のステージ", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 7)
	assert.Equal(t, "", fitName("City", 0))
}

func TestLayoutRowWidth(t *testing.T) {
	row := layoutRow(plain("City"), plain("-1.2"), plain("1:05.400"), 40)
	assert.Equal(t, 40, runewidth.StringWidth(row))
	assert.True(t, strings.HasSuffix(row, "1:05.400"))
	assert.True(t, strings.HasPrefix(row, "City"))
}

func TestKeyConfigDefaultsAndSpaceAlias(t *testing.T) {
	keys := newKeyMap(KeyConfig{Pause: "x, y"}.withDefaults())

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, keys.Pause))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, keys.Pause))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, keys.Split))
	assert.Equal(t, "x", keys.Pause.Help().Key)
}
