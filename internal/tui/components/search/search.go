package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/components/entryitem"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

// Searcher is the slice of the entry repository search needs
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery, page, size int) (models.PagedResult[models.DiaryEntrySummary], error)
	Delete(ctx context.Context, id models.EntryID) error
}

type Status int

const (
	StatusIdle Status = iota
	StatusSearching
	StatusResults
	StatusNoResults
)

func (s Status) String() string {
	return [...]string{"idle", "searching", "results", "no results"}[s]
}

type focus int

const (
	focusInput focus = iota
	focusResults
)

// input slots; date range uses start and end, the text modes use one each
const (
	slotTitle = iota
	slotContent
	slotStart
	slotEnd
	slotCount
)

type resultsMsg struct {
	seq    int
	result models.PagedResult[models.DiaryEntrySummary]
	err    error
}

type deletedMsg struct {
	id  models.EntryID
	err error
}

type KeyMap struct {
	NextMode key.Binding
	PrevMode key.Binding
	Submit   key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Edit     key.Binding
	Delete   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Back     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev mode"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
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

// Model searches by one mode at a time. Each mode keeps its own input text
// across mode switches; results never survive a switch.
type Model struct {
	repo     Searcher
	pageSize int
	keys     KeyMap
	styles   theme.Styles
	inputs   [slotCount]textinput.Model
	results  list.Model

	mode       models.SearchMode
	slot       int
	focus      focus
	status     Status
	settled    Status
	page       models.PagedResult[models.DiaryEntrySummary]
	last       models.SearchQuery
	invalid    *models.ValidationError
	seq        int
	deleting   bool
	confirming *models.DiaryEntrySummary
	width      int
	height     int
}

func New(repo Searcher, pageSize int, styles theme.Styles) Model {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	m := Model{
		repo:     repo,
		pageSize: pageSize,
		keys:     DefaultKeyMap(),
		styles:   styles,
		results:  entryitem.NewList(styles, 80, 16),
		width:    80,
		height:   24,
	}
	placeholders := [slotCount]string{"words in the title", "words in the entry", "2024-01-01", "2024-12-31"}
	prompts := [slotCount]string{"Title: ", "Content: ", "From: ", "To:   "}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = prompts[i]
		ti.CharLimit = 200
		ti.Cursor.SetMode(cursor.CursorStatic)
		if i >= slotStart {
			ti.CharLimit = len(constants.DateFormat)
		}
		m.inputs[i] = ti
	}
	m.slot = slotTitle
	m.inputs[slotTitle].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Mode() models.SearchMode { return m.mode }
func (m Model) Status() Status          { return m.status }
func (m Model) Busy() bool              { return m.status == StatusSearching || m.deleting }

// Results is what is currently displayed; empty unless Status is StatusResults
func (m Model) Results() []models.DiaryEntrySummary {
	if m.status != StatusResults {
		return nil
	}
	return m.page.Items
}

// Invalid holds the field messages from the last locally rejected submit
func (m Model) Invalid() *models.ValidationError { return m.invalid }

func (m Model) KeyBindings() []key.Binding {
	switch {
	case m.confirming != nil:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case m.focus == focusResults:
		if m.page.TotalPages > 1 {
			return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Edit, m.keys.Delete, m.keys.PrevPage, m.keys.NextPage, m.keys.Back}
		}
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Edit, m.keys.Delete, m.keys.Back}
	}
	return []key.Binding{m.keys.NextMode, m.keys.PrevMode, m.keys.Submit, m.keys.Back}
}

// Input returns the cached text of a slot for the active mode; index 0 is
// the only slot of the text modes and the start date of a date range.
func (m Model) Input(i int) string {
	slots := slotsFor(m.mode)
	if i < 0 || i >= len(slots) {
		return ""
	}
	return m.inputs[slots[i]].Value()
}

// SetInput writes the text of a slot of the active mode
func (m *Model) SetInput(i int, value string) {
	slots := slotsFor(m.mode)
	if i < 0 || i >= len(slots) {
		return
	}
	m.inputs[slots[i]].SetValue(value)
}

func slotsFor(mode models.SearchMode) []int {
	switch mode {
	case models.SearchByContent:
		return []int{slotContent}
	case models.SearchByDateRange:
		return []int{slotStart, slotEnd}
	default:
		return []int{slotTitle}
	}
}

// SetMode switches the active mode. Displayed results are cleared and any
// request in flight is ignored when it lands; no request is sent.
func (m *Model) SetMode(mode models.SearchMode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.seq++
	m.status = StatusIdle
	m.settled = StatusIdle
	m.page = models.PagedResult[models.DiaryEntrySummary]{}
	m.last = nil
	m.invalid = nil
	m.confirming = nil
	m.results.SetItems(nil)
	m.focusSlot(slotsFor(mode)[0])
}

func (m *Model) focusSlot(slot int) {
	m.focus = focusInput
	m.slot = slot
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[slot].Focus()
}

// Query builds the query for the active mode from its cached input
func (m Model) Query() (models.SearchQuery, error) {
	switch m.mode {
	case models.SearchByContent:
		return models.ContentQuery{Text: m.inputs[slotContent].Value()}, nil
	case models.SearchByDateRange:
		verr := &models.ValidationError{}
		start, err := parseOptionalDate(m.inputs[slotStart].Value())
		if err != nil {
			verr.Add(models.FieldStartDate, "start date must look like 2024-01-01")
		}
		end, err := parseOptionalDate(m.inputs[slotEnd].Value())
		if err != nil {
			verr.Add(models.FieldEndDate, "end date must look like 2024-12-31")
		}
		if !verr.Empty() {
			return nil, verr
		}
		return models.DateRangeQuery{Start: start, End: end}, nil
	default:
		return models.TitleQuery{Text: m.inputs[slotTitle].Value()}, nil
	}
}

func parseOptionalDate(s string) (models.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Date{}, nil
	}
	return models.ParseDate(s)
}

// Submit runs the active mode's query. Missing or malformed input is
// rejected here without sending anything.
func (m *Model) Submit() tea.Cmd {
	q, err := m.Query()
	if err == nil {
		err = q.Validate()
	}
	if err != nil {
		m.invalid = asValidation(err)
		return nil
	}
	m.invalid = nil
	return m.run(q, 0)
}

func asValidation(err error) *models.ValidationError {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &models.ValidationError{Fields: map[string]string{models.FieldQuery: err.Error()}}
}

func (m *Model) run(q models.SearchQuery, page int) tea.Cmd {
	m.seq++
	if m.status != StatusSearching {
		m.settled = m.status
	}
	m.status = StatusSearching
	m.last = q

	repo, size, seq := m.repo, m.pageSize, m.seq
	return func() tea.Msg {
		result, err := repo.Search(context.Background(), q, page, size)
		return resultsMsg{seq: seq, result: result, err: err}
	}
}

// Rerun repeats the last query on the current page, used after a delete.
// A page emptied by the delete steps back one.
func (m *Model) Rerun() tea.Cmd {
	if m.last == nil {
		return nil
	}
	page := m.page.Page
	if len(m.page.Items) <= 1 && page > 0 {
		page--
	}
	return m.run(m.last, page)
}

// NextPage is a no-op without results or on the last page
func (m *Model) NextPage() tea.Cmd {
	if m.last == nil || m.status != StatusResults || !m.page.HasNext() {
		return nil
	}
	return m.run(m.last, m.page.Page+1)
}

// PrevPage is a no-op without results or on the first page
func (m *Model) PrevPage() tea.Cmd {
	if m.last == nil || m.status != StatusResults || !m.page.HasPrev() {
		return nil
	}
	return m.run(m.last, m.page.Page-1)
}

func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
	m.results.SetDelegate(entryitem.Delegate(styles))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// mode tabs and inputs take the top rows
	m.results.SetSize(width, max(height-7, 3))
	for i := range m.inputs {
		m.inputs[i].Width = max(width-12, 10)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsMsg:
		return m.applyResults(msg)

	case deletedMsg:
		m.deleting = false
		if msg.err != nil {
			return m, nav.Failure("delete entry", msg.err)
		}
		return m, tea.Batch(nav.Success("Entry deleted."), m.Rerun())

	case tea.KeyMsg:
		if m.confirming != nil {
			return m.updateConfirm(msg)
		}
		if m.focus == focusResults {
			return m.updateResults(msg)
		}
		return m.updateInput(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.slot], cmd = m.inputs[m.slot].Update(msg)
	return m, cmd
}

func (m Model) applyResults(msg resultsMsg) (Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	if msg.err != nil {
		// fall back to what was shown before the request
		m.status = m.settled
		return m, nav.Failure("search", msg.err)
	}

	m.page = msg.result
	m.results.SetItems(entryitem.Items(msg.result.Items))
	m.results.ResetSelected()
	if msg.result.Empty() {
		m.status = StatusNoResults
		m.focusSlot(m.slot)
		return m, nil
	}
	m.status = StatusResults
	m.focus = focusResults
	m.inputs[m.slot].Blur()
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, nav.To(nav.ShowListMsg{})
	case key.Matches(msg, m.keys.NextMode):
		m.SetMode(m.mode.Next())
		return m, nil
	case key.Matches(msg, m.keys.PrevMode):
		m.SetMode(m.mode.Next().Next())
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.Submit()
	case key.Matches(msg, m.keys.Up):
		if m.mode == models.SearchByDateRange {
			m.focusSlot(slotStart)
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.slot == slotStart {
			m.focusSlot(slotEnd)
			return m, nil
		}
		if m.status == StatusResults {
			m.focus = focusResults
			m.inputs[m.slot].Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.slot], cmd = m.inputs[m.slot].Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focusSlot(m.slot)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if e, ok := entryitem.Selected(m.results); ok {
			return m, nav.To(nav.ShowDetailMsg{ID: e.ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if e, ok := entryitem.Selected(m.results); ok {
			return m, nav.To(nav.ShowFormMsg{ID: e.ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if e, ok := entryitem.Selected(m.results); ok && !m.deleting {
			m.confirming = &e
		}
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		return m, m.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.PrevPage()
	case key.Matches(msg, m.keys.Up) && m.results.Index() == 0:
		m.focusSlot(m.slot)
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
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

	sections := []string{m.viewModes(), ""}
	for _, slot := range slotsFor(m.mode) {
		sections = append(sections, m.inputs[slot].View())
	}
	if m.invalid != nil {
		for _, field := range []string{models.FieldQuery, models.FieldStartDate, models.FieldEndDate} {
			if msg := m.invalid.Field(field); msg != "" {
				sections = append(sections, m.styles.Danger.Render("• "+msg))
			}
		}
	}
	sections = append(sections, "")

	switch m.status {
	case StatusSearching:
		sections = append(sections, m.styles.Subtle.Render("Searching..."))
	case StatusNoResults:
		sections = append(sections, m.styles.Subtle.Render(fmt.Sprintf("No entries match this %s search.", m.mode)))
	case StatusResults:
		header := fmt.Sprintf("%d on this page", len(m.page.Items))
		if m.page.TotalPages > 1 {
			header += fmt.Sprintf(" · page %d of %d · ←/→ to page", m.page.Page+1, m.page.TotalPages)
		}
		sections = append(sections, m.styles.Subtle.Render(header), m.results.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewModes() string {
	var tabs []string
	for _, mode := range []models.SearchMode{models.SearchByTitle, models.SearchByContent, models.SearchByDateRange} {
		label := strings.ToUpper(mode.String()[:1]) + mode.String()[1:]
		if mode == m.mode {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
