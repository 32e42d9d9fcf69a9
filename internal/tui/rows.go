package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	deltaWidth   = 9
	timeWidth    = 11
	minNameWidth = 4
	defaultWidth = 40
)

type cell struct {
	text  string
	style lipgloss.Style
}

func plain(text string) cell {
	return cell{text: text, style: pendingStyle}
}

// fitName truncates or pads name to exactly width display columns.
func fitName(name string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(name) > width {
		name = runewidth.Truncate(name, width, "…")
	}
	return runewidth.FillRight(name, width)
}

func layoutRow(name cell, delta, total cell, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	nameWidth := max(width-deltaWidth-timeWidth-2, minNameWidth)
	var b strings.Builder
	b.WriteString(name.style.Render(fitName(name.text, nameWidth)))
	b.WriteByte(' ')
	b.WriteString(delta.style.Render(runewidth.FillLeft(delta.text, deltaWidth)))
	b.WriteByte(' ')
	b.WriteString(total.style.Render(runewidth.FillLeft(total.text, timeWidth)))
	return b.String()
}
