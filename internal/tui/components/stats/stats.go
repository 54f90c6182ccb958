package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

// Source fetches a fresh statistics snapshot
type Source interface {
	Statistics(ctx context.Context) (models.Statistics, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

const (
	maxBarWidth = 30
	maxMonths   = 12
)

type loadedMsg struct {
	seq   int
	stats models.Statistics
	err   error
}

type KeyMap struct {
	Reload key.Binding
	Back   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

type Model struct {
	repo     Source
	topWords int
	keys     KeyMap
	styles   theme.Styles

	status Status
	stats  models.Statistics
	seq    int
	width  int
}

func New(repo Source, topWords int, styles theme.Styles) Model {
	return Model{
		repo:     repo,
		topWords: topWords,
		keys:     DefaultKeyMap(),
		styles:   styles,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Status() Status             { return m.status }
func (m Model) Stats() models.Statistics   { return m.stats }
func (m Model) Busy() bool                 { return m.status == StatusLoading }
func (m Model) KeyBindings() []key.Binding { return []key.Binding{m.keys.Reload, m.keys.Back} }
func (m *Model) SetStyles(s theme.Styles)  { m.styles = s }
func (m *Model) SetSize(width, _ int)      { m.width = width }

// Load always fetches; snapshots are never reused
func (m *Model) Load() tea.Cmd {
	m.seq++
	m.status = StatusLoading
	repo, seq := m.repo, m.seq
	return func() tea.Msg {
		stats, err := repo.Statistics(context.Background())
		return loadedMsg{seq: seq, stats: stats, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.status = StatusFailed
			m.stats = models.Statistics{}
			return m, nav.Failure("load statistics", msg.err)
		}
		m.stats = msg.stats
		m.status = StatusReady
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Reload):
			return m, m.Load()
		case key.Matches(msg, m.keys.Back):
			return m, nav.To(nav.ShowListMsg{})
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.status {
	case StatusIdle:
		return ""
	case StatusLoading:
		return "\n  Crunching numbers..."
	case StatusFailed:
		return "\n  Could not load statistics.\n  Press 'r' to retry."
	}

	s := m.stats
	total := m.styles.Title.Render(fmt.Sprintf("%s %s", humanize.Comma(int64(s.TotalEntries)), plural(s.TotalEntries, "entry", "entries")))
	if s.TotalEntries == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, total, "", m.styles.Subtle.Render("Write something to see your statistics."))
	}

	monthly := m.viewMonthly()
	words := m.viewWords()
	var body string
	if m.width >= 90 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, monthly, "    ", words)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, monthly, "", words)
	}
	return lipgloss.JoinVertical(lipgloss.Left, total, "", body)
}

func (m Model) viewMonthly() string {
	s := m.stats
	months := s.Monthly
	if len(months) > maxMonths {
		months = months[:maxMonths]
	}
	peak := s.MaxMonthly()

	lines := []string{m.styles.Accent.Render("Entries per month")}
	for _, mc := range months {
		width := 0
		if peak > 0 {
			width = mc.Count * maxBarWidth / peak
		}
		if width == 0 && mc.Count > 0 {
			width = 1
		}
		lines = append(lines, fmt.Sprintf("%-8s %s %d",
			mc.MonthName(),
			m.styles.Bar.Render(strings.Repeat("█", width)),
			mc.Count,
		))
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func (m Model) viewWords() string {
	words := m.stats.TopWords(m.topWords)
	lines := []string{m.styles.Accent.Render("Top words")}
	if len(words) == 0 {
		lines = append(lines, m.styles.Subtle.Render("none yet"))
	}
	for i, w := range words {
		lines = append(lines, fmt.Sprintf("%2d. %-16s %s", i+1, w.Word, m.styles.Subtle.Render(humanize.Comma(int64(w.Frequency)))))
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
