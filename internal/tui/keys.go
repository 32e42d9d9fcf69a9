package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyConfig lists the keys bound to each timing action, comma separated.
type KeyConfig struct {
	Split          string
	Pause          string
	Skip           string
	Unsplit        string
	Reset          string
	NextComparison string
	PrevComparison string
	Quit           string
}

// DefaultKeyConfig returns the built-in bindings.
func DefaultKeyConfig() KeyConfig {
	return KeyConfig{
		Split:          "space",
		Pause:          "p",
		Skip:           "s",
		Unsplit:        "backspace",
		Reset:          "r",
		NextComparison: "right",
		PrevComparison: "left",
		Quit:           "q,ctrl+c",
	}
}

func (c KeyConfig) withDefaults() KeyConfig {
	d := DefaultKeyConfig()
	for _, f := range []struct{ value, fallback *string }{
		{&c.Split, &d.Split},
		{&c.Pause, &d.Pause},
		{&c.Skip, &d.Skip},
		{&c.Unsplit, &d.Unsplit},
		{&c.Reset, &d.Reset},
		{&c.NextComparison, &d.NextComparison},
		{&c.PrevComparison, &d.PrevComparison},
		{&c.Quit, &d.Quit},
	} {
		if strings.TrimSpace(*f.value) == "" {
			*f.value = *f.fallback
		}
	}
	return c
}

type keyMap struct {
	Split          key.Binding
	Pause          key.Binding
	Skip           key.Binding
	Unsplit        key.Binding
	Reset          key.Binding
	NextComparison key.Binding
	PrevComparison key.Binding
	Quit           key.Binding
}

func newKeyMap(cfg KeyConfig) keyMap {
	return keyMap{
		Split:          binding(cfg.Split, "split"),
		Pause:          binding(cfg.Pause, "pause"),
		Skip:           binding(cfg.Skip, "skip"),
		Unsplit:        binding(cfg.Unsplit, "undo"),
		Reset:          binding(cfg.Reset, "reset"),
		NextComparison: binding(cfg.NextComparison, "next cmp"),
		PrevComparison: binding(cfg.PrevComparison, "prev cmp"),
		Quit:           binding(cfg.Quit, "quit"),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Split, k.Pause, k.Skip, k.Unsplit, k.Reset, k.NextComparison, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Split, k.Skip, k.Unsplit},
		{k.Pause, k.Reset},
		{k.NextComparison, k.PrevComparison, k.Quit},
	}
}

func binding(keys, desc string) key.Binding {
	names := parseKeys(keys)
	if len(names) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(expandKeys(names)...), key.WithHelp(names[0], desc))
}

func parseKeys(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Bubble Tea reports the space bar as " " in some terminals.
func expandKeys(names []string) []string {
	out := make([]string, 0, len(names)+1)
	for _, name := range names {
		out = append(out, name)
		if name == "space" {
			out = append(out, " ")
		}
	}
	return out
}
