// Package tui provides the Bubble Tea split timer interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/splits"
	"github.com/verte-zerg/tuisplit/internal/store"
	"github.com/verte-zerg/tuisplit/internal/timefmt"
	"github.com/verte-zerg/tuisplit/internal/timer"
)

// DefaultTick is the poll interval used when Options.Tick is not set.
const DefaultTick = 16 * time.Millisecond

// Options configures the timer UI.
type Options struct {
	SplitsPath    string
	FrameRounding bool
	Tick          time.Duration
	Keys          KeyConfig
}

type tickMsg time.Time

// attemptLog collects the splits of the attempt in progress for the history store.
type attemptLog struct {
	active    bool
	startedAt time.Time
	splits    []model.AttemptSplit
	statuses  []timer.Status
}

// Model implements the Bubble Tea timer UI. Key presses are queued and
// handed to the state machine on the next tick.
type Model struct {
	state  *timer.State
	store  *store.Store
	logger *log.Logger
	opts   Options
	keys   keyMap
	help   help.Model
	now    func() time.Time

	requests []timer.Request
	last     timer.Update
	attempt  attemptLog

	width  int
	height int
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	timerStyle   = lipgloss.NewStyle().Bold(true).PaddingTop(1)

	statusColors = map[timer.Status]lipgloss.Color{
		timer.StatusNone:    lipgloss.Color("#F0F0F0"),
		timer.StatusAhead:   lipgloss.Color("#29CC7A"),
		timer.StatusLosing:  lipgloss.Color("#9AE6B4"),
		timer.StatusGaining: lipgloss.Color("#FF9A9A"),
		timer.StatusBehind:  lipgloss.Color("#FF4D4F"),
		timer.StatusGold:    lipgloss.Color("#C89A3A"),
	}
)

// NewModel constructs the timer UI around state. st may be nil to disable
// attempt history.
func NewModel(state *timer.State, st *store.Store, logger *log.Logger, opts Options) *Model {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	keys := newKeyMap(opts.Keys.withDefaults())
	return &Model{
		state:  state,
		store:  st,
		logger: logger,
		opts:   opts,
		keys:   keys,
		help:   help.New(),
		now:    time.Now,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quit()
			return m, tea.Quit
		}
		if req, ok := m.request(msg); ok {
			m.requests = append(m.requests, req)
		}
		return m, nil
	case tickMsg:
		m.step()
		return m, m.tick()
	default:
		return m, nil
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) request(msg tea.KeyMsg) (timer.Request, bool) {
	switch {
	case key.Matches(msg, m.keys.Split):
		return timer.RequestSplit, true
	case key.Matches(msg, m.keys.Pause):
		return timer.RequestPause, true
	case key.Matches(msg, m.keys.Skip):
		return timer.RequestSkip, true
	case key.Matches(msg, m.keys.Unsplit):
		return timer.RequestUnsplit, true
	case key.Matches(msg, m.keys.Reset):
		return timer.RequestReset, true
	case key.Matches(msg, m.keys.NextComparison):
		return timer.RequestNextComparison, true
	case key.Matches(msg, m.keys.PrevComparison):
		return timer.RequestPrevComparison, true
	}
	return 0, false
}

// step runs one frame of the state machine.
func (m *Model) step() {
	prev := m.last.Time
	up := m.state.Update(m.requests)
	m.requests = m.requests[:0]
	m.last = up

	reset := false
	for _, ev := range up.Events {
		m.logger.Debug("timer event", "event", fmt.Sprintf("%T", ev), "detail", fmt.Sprintf("%+v", ev), "phase", m.state.Phase())
		switch ev := ev.(type) {
		case timer.EnterOffset:
			m.beginAttempt()
		case timer.EnterSplit:
			if ev.Index == 0 && !m.attempt.active {
				m.beginAttempt()
			}
		case timer.ExitSplit:
			m.attempt.splits = append(m.attempt.splits, model.AttemptSplit{
				Index:   ev.Index,
				Name:    m.state.Run().SplitNames()[ev.Index],
				TimeMs:  int64(ev.Time.Raw()),
				Skipped: ev.Time.IsSkipped(),
				Gold:    ev.Status == timer.StatusGold,
			})
			m.attempt.statuses = append(m.attempt.statuses, ev.Status)
		case timer.Unsplit:
			m.attempt.splits = m.attempt.splits[:ev.Index]
			m.attempt.statuses = m.attempt.statuses[:ev.Index]
		case timer.Finish:
			m.recordAttempt(true, up.Time, m.state.PendingPersonalBest())
		case timer.Reset:
			if m.attempt.active {
				m.recordAttempt(false, prev, false)
			}
			m.attempt = attemptLog{}
			reset = true
		}
	}
	if reset {
		m.save()
	}
}

func (m *Model) beginAttempt() {
	m.attempt = attemptLog{active: true, startedAt: m.now()}
}

// recordAttempt stores the attempt in progress. Attempts reset before the
// first split are dropped.
func (m *Model) recordAttempt(finished bool, total uint64, pb bool) {
	if !m.attempt.active {
		return
	}
	m.attempt.active = false
	if m.store == nil || len(m.attempt.splits) == 0 {
		return
	}
	attempt := model.Attempt{
		RunKey:       m.state.Run().Key(),
		StartedAt:    m.attempt.startedAt,
		EndedAt:      m.now(),
		Finished:     finished,
		TotalMs:      int64(total),
		PersonalBest: pb,
	}
	id, err := m.store.InsertAttempt(context.Background(), attempt, m.attempt.splits)
	if err != nil {
		m.logger.Error("failed to record attempt", "error", err)
		return
	}
	m.logger.Debug("recorded attempt", "id", id, "finished", finished, "total_ms", total)
}

func (m *Model) quit() {
	if m.attempt.active {
		m.recordAttempt(false, m.last.Time, false)
	}
	m.save()
}

// save writes the run back to its split file when anything changed.
func (m *Model) save() {
	if !m.state.Dirty() || m.opts.SplitsPath == "" {
		return
	}
	m.state.ApplyPending()
	if err := splits.Save(m.opts.SplitsPath, m.state.Run()); err != nil {
		m.logger.Error("failed to save splits", "path", m.opts.SplitsPath, "error", err)
		return
	}
	m.state.MarkSaved()
	m.logger.Info("saved splits", "path", m.opts.SplitsPath)
}

// View implements tea.Model.
func (m *Model) View() string {
	run := m.state.Run()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s - %s", run.GameTitle(), run.Category())),
		footerStyle.Render("Comparing against " + m.state.Comparison().String()),
		"",
	}
	lines = append(lines, m.renderRows(width)...)
	lines = append(lines, m.renderTimer(), m.renderFooter(), m.help.View(m.keys))
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}

func (m *Model) renderRows(width int) []string {
	run := m.state.Run()
	cmp := m.state.Comparison()
	totals := timer.ComparisonTotals(run, cmp)
	times := m.state.RunTimes()
	diffs := m.state.RunDiffs()
	splitTotals := m.state.SplitTotals()
	current := m.state.CurrentSplit()
	live := m.state.Phase() == timer.Running || m.state.Phase() == timer.Paused

	out := make([]string, 0, run.Len())
	for i, name := range run.SplitNames() {
		var nameCell, deltaCell, totalCell cell
		switch {
		case i < len(times):
			nameCell = plain(name)
			if times[i].IsSkipped() {
				deltaCell = plain("")
				totalCell = plain("-")
				break
			}
			deltaCell = plain("")
			if timer.HasComparison(run, cmp, i) {
				deltaCell = cell{text: timefmt.FormatDiff(diffs[i]), style: m.statusStyle(m.splitStatus(i))}
			}
			totalCell = cell{text: m.formatTime(splitTotals[i]), style: currentStyle}
		case i == current && live:
			nameCell = cell{text: name, style: currentStyle}
			deltaCell = plain("")
			if timer.HasComparison(run, cmp, i) && m.last.Time > totals[i] {
				deltaCell = cell{text: timefmt.FormatDiff(int64(m.last.Time) - int64(totals[i])), style: m.statusStyle(m.last.Status)}
			}
			totalCell = plain(formatOptional(totals[i], m.opts.FrameRounding))
		default:
			nameCell = plain(name)
			deltaCell = plain("")
			totalCell = plain(formatOptional(totals[i], m.opts.FrameRounding))
		}
		out = append(out, layoutRow(nameCell, deltaCell, totalCell, width))
	}
	return out
}

func (m *Model) splitStatus(i int) timer.Status {
	if i < len(m.attempt.statuses) {
		return m.attempt.statuses[i]
	}
	return timer.StatusNone
}

func (m *Model) renderTimer() string {
	style := m.statusStyle(m.last.Status).Inherit(timerStyle)
	if m.last.InOffset {
		return style.Render("-" + m.formatTime(m.last.Time))
	}
	text := m.formatTime(m.last.Time)
	if m.state.Phase() == timer.Paused {
		text += " (paused)"
	}
	return style.Render(text)
}

func (m *Model) renderFooter() string {
	run := m.state.Run()
	segments := []string{
		"PB " + formatOptional(run.PersonalBest().Raw(), m.opts.FrameRounding),
		"Sum of best " + formatOptional(run.SumOfBest(), m.opts.FrameRounding),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) statusStyle(s timer.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[s])
}

func (m *Model) formatTime(ms uint64) string {
	return timefmt.FormatTime(ms, m.opts.FrameRounding)
}

func formatOptional(ms uint64, round bool) string {
	if ms == 0 {
		return "-"
	}
	return timefmt.FormatTime(ms, round)
}
