package entrydetail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

// Source loads and deletes single entries
type Source interface {
	Get(ctx context.Context, id models.EntryID) (models.DiaryEntry, error)
	Delete(ctx context.Context, id models.EntryID) error
}

// Resolver turns a stored image reference into a URL
type Resolver interface {
	Resolve(ref string) string
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
	StatusDeleting
)

type loadedMsg struct {
	seq   int
	entry models.DiaryEntry
	err   error
}

type deletedMsg struct {
	seq int
	err error
}

type KeyMap struct {
	Back    key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

type Model struct {
	repo     Source
	files    Resolver
	keys     KeyMap
	styles   theme.Styles
	viewport viewport.Model

	status     Status
	id         models.EntryID
	entry      models.DiaryEntry
	seq        int
	confirming bool
	width      int
	height     int
}

func New(repo Source, files Resolver, styles theme.Styles) Model {
	return Model{
		repo:     repo,
		files:    files,
		keys:     DefaultKeyMap(),
		styles:   styles,
		viewport: viewport.New(80, 16),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Status() Status           { return m.status }
func (m Model) Entry() models.DiaryEntry { return m.entry }
func (m Model) Busy() bool               { return m.status == StatusLoading || m.status == StatusDeleting }
func (m Model) Confirming() bool         { return m.confirming }

func (m Model) KeyBindings() []key.Binding {
	if m.confirming {
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Back, m.keys.Edit, m.keys.Delete, m.keys.Up, m.keys.Down}
}

// Open starts loading id, replacing whatever was shown
func (m *Model) Open(id models.EntryID) tea.Cmd {
	m.id = id
	m.entry = models.DiaryEntry{}
	m.confirming = false
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.seq++
	m.status = StatusLoading

	repo, id, seq := m.repo, m.id, m.seq
	return func() tea.Msg {
		entry, err := repo.Get(context.Background(), id)
		return loadedMsg{seq: seq, entry: entry, err: err}
	}
}

func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
	m.refreshContent()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	// header block above the body
	m.viewport.Height = max(height-8, 3)
	m.refreshContent()
}

func (m *Model) refreshContent() {
	if m.status != StatusReady && m.status != StatusDeleting {
		return
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(m.entry.Content))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, models.ErrNotFound) {
				m.status = StatusIdle
				return m, tea.Batch(nav.Failure("load entry", msg.err), nav.To(nav.ShowListMsg{}))
			}
			m.status = StatusFailed
			return m, nav.Failure("load entry", msg.err)
		}
		m.entry = msg.entry
		m.status = StatusReady
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil

	case deletedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.status = StatusReady
			return m, nav.Failure("delete entry", msg.err)
		}
		m.status = StatusIdle
		m.entry = models.DiaryEntry{}
		return m, tea.Batch(nav.Success("Entry deleted."), nav.To(nav.ShowListMsg{}))

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirming = false
		m.seq++
		m.status = StatusDeleting
		repo, id, seq := m.repo, m.entry.ID, m.seq
		return m, func() tea.Msg {
			return deletedMsg{seq: seq, err: repo.Delete(context.Background(), id)}
		}
	case key.Matches(msg, m.keys.Cancel):
		m.confirming = false
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, nav.To(nav.ShowListMsg{})
	case key.Matches(msg, m.keys.Reload):
		if m.status != StatusDeleting {
			return m, m.load()
		}
		return m, nil
	}

	if m.status != StatusReady {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		return m, nav.To(nav.ShowFormMsg{ID: m.entry.ID})
	case key.Matches(msg, m.keys.Delete):
		m.confirming = true
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch m.status {
	case StatusIdle:
		return ""
	case StatusLoading:
		return "\n  Loading entry..."
	case StatusFailed:
		return "\n  Could not load this entry.\n  Press 'r' to retry or esc to go back."
	}

	if m.confirming {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center,
				m.styles.Danger.Render("Are you sure you want to delete this entry?"),
				"",
				"[y] Yes",
				"[n] No",
			),
		)
	}

	e := m.entry
	lines := []string{
		m.styles.Title.Render(e.Title),
		m.styles.Accent.Render(e.DiaryDate.String()),
	}
	if e.HasImage() {
		lines = append(lines, "Image: "+m.files.Resolve(e.ImagePath))
	}
	lines = append(lines, m.styles.Subtle.Render(m.timestamps()), "", m.viewport.View())
	return strings.Join(lines, "\n")
}

func (m Model) timestamps() string {
	e := m.entry
	if e.CreatedAt.IsZero() {
		return ""
	}
	s := fmt.Sprintf("written %s", humanize.Time(e.CreatedAt.Time))
	if !e.UpdatedAt.IsZero() && e.UpdatedAt.After(e.CreatedAt.Time) {
		s += fmt.Sprintf(", edited %s", humanize.Time(e.UpdatedAt.Time))
	}
	return s
}
