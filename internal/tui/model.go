package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/attachment"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/diary"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/components/entrydetail"
	"github.com/julianstephens/daybook/internal/tui/components/entryform"
	"github.com/julianstephens/daybook/internal/tui/components/entrylist"
	"github.com/julianstephens/daybook/internal/tui/components/search"
	"github.com/julianstephens/daybook/internal/tui/components/stats"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

// AppContext is the shared theme and identity state
type AppContext interface {
	Theme() models.Theme
	SetTheme(models.Theme) error
	Identity() models.Identity
}

// Bootstrapper obtains the device identity before anything else runs
type Bootstrapper interface {
	EnsureIdentity(ctx context.Context) models.Identity
}

type Deps struct {
	App      AppContext
	Identity Bootstrapper
	Repo     *diary.Repository
	Files    *attachment.Handler
	PageSize int
	TopWords int
}

type identityReadyMsg struct {
	identity models.Identity
}

type clearNoticeMsg struct {
	id int
}

type Model struct {
	app       AppContext
	bootstrap Bootstrapper
	state     constants.SessionState
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	styles    theme.Styles

	list   entrylist.Model
	detail entrydetail.Model
	form   entryform.Model
	search search.Model
	stats  stats.Model

	notice    *nav.NoticeMsg
	noticeID  int
	noticeTTL time.Duration
	quitting  bool
	width     int
	height    int
}

func NewModel(d Deps) Model {
	styles := theme.For(d.App.Theme())
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	return Model{
		app:       d.App,
		bootstrap: d.Identity,
		state:     constants.StateBootstrapping,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		styles:    styles,
		list:      entrylist.New(d.Repo, d.PageSize, styles),
		detail:    entrydetail.New(d.Repo, d.Files, styles),
		form:      entryform.New(d.Repo, d.Files, styles),
		search:    search.New(d.Repo, d.PageSize, styles),
		stats:     stats.New(d.Repo, d.TopWords, styles),
		noticeTTL: constants.NoticeTTL,
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.ensureIdentity())
}

// ensureIdentity runs the handshake; screens stay gated until it reports back
func (m Model) ensureIdentity() tea.Cmd {
	b := m.bootstrap
	return func() tea.Msg {
		return identityReadyMsg{identity: b.EnsureIdentity(context.Background())}
	}
}

// State is the screen currently shown
func (m Model) State() constants.SessionState { return m.state }

func (m Model) busy() bool {
	switch m.state {
	case constants.StateBootstrapping:
		return true
	case constants.StateList:
		return m.list.Busy()
	case constants.StateDetail:
		return m.detail.Busy()
	case constants.StateForm:
		return m.form.Busy()
	case constants.StateSearch:
		return m.search.Busy()
	case constants.StateStats:
		return m.stats.Busy()
	}
	return false
}

// globalKeys reports whether single-letter shortcuts belong to the shell;
// screens with text input or an open confirmation keep them.
func (m Model) globalKeys() bool {
	switch m.state {
	case constants.StateList:
		return !m.list.Confirming()
	case constants.StateDetail:
		return !m.detail.Confirming()
	case constants.StateStats:
		return true
	}
	return false
}

func (m Model) screenKeys() []key.Binding {
	switch m.state {
	case constants.StateList:
		return m.list.KeyBindings()
	case constants.StateDetail:
		return m.detail.KeyBindings()
	case constants.StateForm:
		return m.form.KeyBindings()
	case constants.StateSearch:
		return m.search.KeyBindings()
	case constants.StateStats:
		return m.stats.KeyBindings()
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := m.screenKeys()
	if m.globalKeys() {
		keys = append(keys, m.keys.Search, m.keys.Help, m.keys.Quit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{m.screenKeys()}
	if m.globalKeys() {
		groups = append(groups, []key.Binding{m.keys.List, m.keys.Search, m.keys.Stats, m.keys.Theme, m.keys.Help, m.keys.Quit})
	}
	return groups
}

func (m *Model) applyTheme(t models.Theme) {
	m.styles = theme.For(t)
	m.spinner.Style = m.styles.Accent
	m.list.SetStyles(m.styles)
	m.detail.SetStyles(m.styles)
	m.form.SetStyles(m.styles)
	m.search.SetStyles(m.styles)
	m.stats.SetStyles(m.styles)
}

func (m *Model) resize() {
	// tabs, notice and help lines plus doc padding
	w := max(m.width-4, 20)
	h := max(m.height-7, 5)
	m.help.Width = m.width
	m.list.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.form.SetSize(w, h)
	m.search.SetSize(w, h)
	m.stats.SetSize(w, h)
}
