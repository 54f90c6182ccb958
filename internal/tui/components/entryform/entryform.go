package entryform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/attachment"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

// Saver is the slice of the entry repository the form needs
type Saver interface {
	Get(ctx context.Context, id models.EntryID) (models.DiaryEntry, error)
	Create(ctx context.Context, in models.EntryInput) (models.DiaryEntry, error)
	Update(ctx context.Context, id models.EntryID, in models.EntryInput) (models.DiaryEntry, error)
}

// Files uploads staged images and resolves stored ones
type Files interface {
	Upload(ctx context.Context, f *attachment.StagedFile) (string, error)
	Resolve(ref string) string
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoadingExisting
	StatusValidating
	StatusSubmitting
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	return [...]string{"idle", "loading", "validating", "submitting", "done", "failed"}[s]
}

type loadedMsg struct {
	seq   int
	entry models.DiaryEntry
	err   error
}

type submittedMsg struct {
	seq   int
	entry models.DiaryEntry
	err   error
}

type KeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
	}
}

// Model creates a new entry or edits an existing one
type Model struct {
	repo   Saver
	files  Files
	keys   KeyMap
	styles theme.Styles

	status  Status
	id      models.EntryID
	fields  *Fields
	form    *huh.Form
	invalid *models.ValidationError
	seq     int
	width   int
}

func New(repo Saver, files Files, styles theme.Styles) Model {
	return Model{
		repo:   repo,
		files:  files,
		keys:   DefaultKeyMap(),
		styles: styles,
		fields: newFields(),
		width:  80,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Status() Status  { return m.status }
func (m Model) Fields() *Fields { return m.fields }
func (m Model) Editing() bool   { return m.id != "" }
func (m Model) Busy() bool      { return m.status == StatusLoadingExisting || m.status == StatusSubmitting }

// Invalid holds the field messages from the last rejected submit
func (m Model) Invalid() *models.ValidationError { return m.invalid }

func (m Model) KeyBindings() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Submit, m.keys.Cancel}
}

// Start opens a blank form, or loads id for editing when it is not empty
func (m *Model) Start(id models.EntryID) tea.Cmd {
	m.fields.dropStaged()
	m.id = id
	m.invalid = nil
	m.seq++

	if id == "" {
		m.fields = newFields()
		m.status = StatusIdle
		return m.rebuild()
	}

	m.fields = &Fields{}
	m.form = nil
	m.status = StatusLoadingExisting
	repo, seq := m.repo, m.seq
	return func() tea.Msg {
		entry, err := repo.Get(context.Background(), id)
		return loadedMsg{seq: seq, entry: entry, err: err}
	}
}

func (m *Model) rebuild() tea.Cmd {
	m.form = newForm(m.fields, m.styles.Form, m.Editing())
	m.form.WithWidth(m.width)
	return m.form.Init()
}

// ensureForm rebuilds the form once huh has finished with it; the bound
// Fields carry the values over.
func (m *Model) ensureForm() tea.Cmd {
	if m.form != nil && m.form.State == huh.StateNormal {
		return nil
	}
	return m.rebuild()
}

func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
	if m.form != nil {
		m.form.WithTheme(styles.Form)
	}
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
	if m.form != nil {
		m.form.WithWidth(width)
	}
}

// Submit validates locally and, only if that passes, uploads any staged
// image and saves the entry.
func (m *Model) Submit() tea.Cmd {
	if m.status == StatusLoadingExisting || m.status == StatusSubmitting {
		return nil
	}

	m.status = StatusValidating
	in, err := m.fields.input()
	if err != nil {
		var verr *models.ValidationError
		errors.As(err, &verr)
		m.invalid = verr
		m.status = StatusIdle
		return m.ensureForm()
	}
	m.invalid = nil
	m.status = StatusSubmitting
	m.seq++

	repo, files, id, seq := m.repo, m.files, m.id, m.seq
	staged := m.fields.staged
	return func() tea.Msg {
		ctx := context.Background()
		if staged != nil {
			ref, err := files.Upload(ctx, staged)
			if err != nil {
				return submittedMsg{seq: seq, err: fmt.Errorf("upload image: %w", err)}
			}
			in.ImagePath = ref
		}

		var (
			saved models.DiaryEntry
			err   error
		)
		if id == "" {
			saved, err = repo.Create(ctx, in)
		} else {
			saved, err = repo.Update(ctx, id, in)
		}
		return submittedMsg{seq: seq, entry: saved, err: err}
	}
}

// Cancel abandons the form and releases any staged image
func (m *Model) Cancel() tea.Cmd {
	m.seq++
	m.fields.dropStaged()
	m.status = StatusIdle
	m.form = nil
	if m.id != "" {
		return nav.To(nav.ShowDetailMsg{ID: m.id})
	}
	return nav.To(nav.ShowListMsg{})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.status = StatusIdle
			return m, tea.Batch(nav.Failure("load entry for editing", msg.err), nav.To(nav.ShowListMsg{}))
		}
		m.fields = fieldsFor(msg.entry)
		m.status = StatusIdle
		return m, m.rebuild()

	case submittedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			// keep everything the user typed so they can retry
			m.status = StatusFailed
			return m, tea.Batch(nav.Failure("save entry", msg.err), m.ensureForm())
		}
		logger.Info("Entry saved", "id", msg.entry.ID, "image", msg.entry.ImagePath != "")
		m.fields.dropStaged()
		m.status = StatusDone
		m.id = msg.entry.ID
		m.form = nil
		return m, tea.Batch(nav.Success("Entry saved."), nav.To(nav.ShowDetailMsg{ID: msg.entry.ID}))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, m.Cancel()
		case key.Matches(msg, m.keys.Submit):
			return m, m.Submit()
		}
	}

	// huh stays completed once finished, so only an editable form is driven
	if m.form == nil || (m.status != StatusIdle && m.status != StatusFailed) {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, tea.Batch(cmd, m.Submit())
	case huh.StateAborted:
		return m, m.Cancel()
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.status {
	case StatusLoadingExisting:
		return "\n  Loading entry..."
	case StatusDone:
		return "\n  Saved."
	}
	if m.form == nil {
		return ""
	}

	var b strings.Builder
	if m.invalid != nil {
		for _, field := range []string{models.FieldTitle, models.FieldContent, models.FieldDate} {
			if msg := m.invalid.Field(field); msg != "" {
				b.WriteString(m.styles.Danger.Render("• "+msg) + "\n")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(m.form.View())
	b.WriteString("\n")
	b.WriteString(m.imageLine())

	switch m.status {
	case StatusSubmitting:
		b.WriteString("\n" + m.styles.Subtle.Render("Saving..."))
	case StatusFailed:
		b.WriteString("\n" + m.styles.Warning.Render("Not saved. Press ctrl+s to try again."))
	}
	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}

func (m Model) imageLine() string {
	f := m.fields
	switch {
	case f.staged != nil:
		return m.styles.Accent.Render("Attaching: ") + f.staged.Describe()
	case f.ClearImage:
		return m.styles.Warning.Render("Current image will be removed")
	case f.existingImage != "":
		return m.styles.Subtle.Render("Current image: ") + m.files.Resolve(f.existingImage)
	}
	return m.styles.Subtle.Render("No image")
}
