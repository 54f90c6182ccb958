package entrylist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/components/entryitem"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

// Lister is the slice of the entry repository the list screen needs
type Lister interface {
	List(ctx context.Context, page, size int) (models.PagedResult[models.DiaryEntrySummary], error)
	Delete(ctx context.Context, id models.EntryID) error
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusEmpty
	StatusFailed
)

type pageLoadedMsg struct {
	seq       int
	requested int
	result    models.PagedResult[models.DiaryEntrySummary]
	err       error
}

type deletedMsg struct {
	id  models.EntryID
	err error
}

type KeyMap struct {
	Open     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Reload   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new entry"),
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
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "prev page"),
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

// Model is the paginated entry list. Only the response to the most recent
// page request is applied.
type Model struct {
	repo     Lister
	pageSize int
	list     list.Model
	keys     KeyMap
	styles   theme.Styles

	status     Status
	page       models.PagedResult[models.DiaryEntrySummary]
	requested  int
	seq        int
	loaded     bool
	deleting   bool
	confirming *models.DiaryEntrySummary
	width      int
	height     int
}

func New(repo Lister, pageSize int, styles theme.Styles) Model {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	keys := DefaultKeyMap()
	l := entryitem.NewList(styles, 80, 24)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Open, keys.Add, keys.Edit, keys.Delete, keys.PrevPage, keys.NextPage}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Open, keys.Add, keys.Edit, keys.Delete, keys.Reload, keys.PrevPage, keys.NextPage}
	}
	return Model{
		repo:     repo,
		pageSize: pageSize,
		list:     l,
		keys:     keys,
		styles:   styles,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Status() Status { return m.status }

func (m Model) Page() models.PagedResult[models.DiaryEntrySummary] { return m.page }

func (m Model) Busy() bool { return m.status == StatusLoading || m.deleting }

// Confirming reports whether a delete confirmation is open
func (m Model) Confirming() bool { return m.confirming != nil }

func (m Model) KeyBindings() []key.Binding {
	if m.confirming != nil {
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return m.list.ShortHelp()
}

// Load requests page (zero-based) and supersedes any request in flight
func (m *Model) Load(page int) tea.Cmd {
	if page < 0 {
		page = 0
	}
	m.seq++
	m.status = StatusLoading
	m.requested = page

	repo, size, seq := m.repo, m.pageSize, m.seq
	return func() tea.Msg {
		result, err := repo.List(context.Background(), page, size)
		return pageLoadedMsg{seq: seq, requested: page, result: result, err: err}
	}
}

// Reload fetches the current page again
func (m *Model) Reload() tea.Cmd {
	return m.Load(m.page.Page)
}

// NextPage is a no-op on the last page
func (m *Model) NextPage() tea.Cmd {
	if !m.page.HasNext() {
		return nil
	}
	return m.Load(m.page.Page + 1)
}

// PrevPage is a no-op on the first page
func (m *Model) PrevPage() tea.Cmd {
	if !m.page.HasPrev() {
		return nil
	}
	return m.Load(m.page.Page - 1)
}

// GoToPage ignores out-of-range pages and the current page
func (m *Model) GoToPage(page int) tea.Cmd {
	if page < 0 || page >= m.page.TotalPages || page == m.page.Page {
		return nil
	}
	return m.Load(page)
}

func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
	m.list.SetDelegate(entryitem.Delegate(styles))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// room for the pager line
	m.list.SetSize(width, max(height-2, 1))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return m.applyPage(msg)

	case deletedMsg:
		m.deleting = false
		if msg.err != nil {
			return m, nav.Failure("delete entry", msg.err)
		}
		return m, tea.Batch(nav.Success("Entry deleted."), m.Reload())

	case tea.KeyMsg:
		if m.confirming != nil {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) applyPage(msg pageLoadedMsg) (Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	if msg.err != nil {
		// keep whatever was on screen
		switch {
		case !m.loaded:
			m.status = StatusFailed
		case m.page.Empty():
			m.status = StatusEmpty
		default:
			m.status = StatusReady
		}
		return m, nav.Failure("list entries", msg.err)
	}
	// the requested page vanished (e.g. its last entry was deleted)
	if msg.result.Empty() && msg.requested > 0 {
		return m, m.Load(msg.requested - 1)
	}

	m.page = msg.result
	m.loaded = true
	m.list.SetItems(entryitem.Items(msg.result.Items))
	m.list.ResetSelected()
	if msg.result.Empty() {
		m.status = StatusEmpty
	} else {
		m.status = StatusReady
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := *m.confirming
		m.confirming = nil
		m.deleting = true
		repo := m.repo
		return m, func() tea.Msg {
			return deletedMsg{id: target.ID, err: repo.Delete(context.Background(), target.ID)}
		}
	case key.Matches(msg, m.keys.Cancel):
		m.confirming = nil
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= constants.MaxVisiblePageLinks {
		window := m.page.PageWindow(constants.MaxVisiblePageLinks)
		if n <= len(window) {
			return m, m.GoToPage(window[n-1])
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if e, ok := entryitem.Selected(m.list); ok {
			return m, nav.To(nav.ShowDetailMsg{ID: e.ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Add):
		return m, nav.To(nav.ShowFormMsg{})
	case key.Matches(msg, m.keys.Edit):
		if e, ok := entryitem.Selected(m.list); ok {
			return m, nav.To(nav.ShowFormMsg{ID: e.ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if e, ok := entryitem.Selected(m.list); ok && !m.deleting {
			m.confirming = &e
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.Reload()
	case key.Matches(msg, m.keys.NextPage):
		return m, m.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.PrevPage()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.confirming != nil {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center,
				m.styles.Danger.Render(fmt.Sprintf("Delete %q?", m.confirming.Title)),
				"",
				"[y] Yes",
				"[n] No",
			),
		)
	}

	switch {
	case m.status == StatusFailed:
		return "\n  Could not load entries.\n  Press 'r' to retry."
	case !m.loaded:
		return "\n  Loading entries..."
	case m.page.Empty():
		return "\n  No entries yet.\n  Press 'a' to write one."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.pager())
}

// pager renders "‹ 1 2 [3] 4 5 ›" with disabled arrows at the bounds
func (m Model) pager() string {
	if m.page.TotalPages <= 1 {
		return ""
	}
	var parts []string
	if m.page.HasPrev() {
		parts = append(parts, m.styles.Accent.Render("‹"))
	} else {
		parts = append(parts, m.styles.Disabled.Render("‹"))
	}
	for _, p := range m.page.PageWindow(constants.MaxVisiblePageLinks) {
		label := strconv.Itoa(p + 1)
		if p == m.page.Page {
			parts = append(parts, m.styles.Selected.Render(label))
		} else {
			parts = append(parts, m.styles.Subtle.Render(label))
		}
	}
	if m.page.HasNext() {
		parts = append(parts, m.styles.Accent.Render("›"))
	} else {
		parts = append(parts, m.styles.Disabled.Render("›"))
	}
	return "  " + strings.Join(parts, " ") +
		m.styles.Subtle.Render(fmt.Sprintf("   page %d of %d", m.page.Page+1, m.page.TotalPages))
}
