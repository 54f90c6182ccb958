package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/tui/nav"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case identityReadyMsg:
		m.state = constants.StateList
		cmd := m.list.Load(0)
		if !msg.identity.Present() {
			logger.Warn("Starting without an identity")
			return m, tea.Batch(cmd, nav.To(nav.NoticeMsg{
				Level: constants.NoticeError,
				Text:  "Could not reach the diary service. Entries will not load until it is back.",
			}))
		}
		return m, cmd

	case nav.NoticeMsg:
		m.noticeID++
		m.notice = &msg
		id := m.noticeID
		return m, tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
			return clearNoticeMsg{id: id}
		})

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.state == constants.StateBootstrapping {
		return m, nil
	}
	if cmd, ok := m.navigate(msg); ok {
		return m, cmd
	}
	return m.broadcast(msg)
}

// navigate switches screens. Coming back to the list always reloads it.
func (m *Model) navigate(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case nav.ShowListMsg:
		m.state = constants.StateList
		return m.list.Reload(), true
	case nav.ShowDetailMsg:
		m.state = constants.StateDetail
		return m.detail.Open(msg.ID), true
	case nav.ShowFormMsg:
		m.state = constants.StateForm
		return m.form.Start(msg.ID), true
	case nav.ShowSearchMsg:
		m.state = constants.StateSearch
		return nil, true
	case nav.ShowStatsMsg:
		m.state = constants.StateStats
		return m.stats.Load(), true
	}
	return nil, false
}

// broadcast hands a completion message to every screen; each one ignores
// messages it did not ask for.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.detail, cmd = m.detail.Update(msg)
	cmds = append(cmds, cmd)
	m.form, cmd = m.form.Update(msg)
	cmds = append(cmds, cmd)
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	m.stats, cmd = m.stats.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	if m.state == constants.StateBootstrapping {
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.globalKeys() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			return m, m.toggleTheme()
		case key.Matches(msg, m.keys.Search):
			return m, nav.To(nav.ShowSearchMsg{})
		case key.Matches(msg, m.keys.Stats):
			return m, nav.To(nav.ShowStatsMsg{})
		case key.Matches(msg, m.keys.List) && m.state != constants.StateList:
			return m, nav.To(nav.ShowListMsg{})
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateList:
		m.list, cmd = m.list.Update(msg)
	case constants.StateDetail:
		m.detail, cmd = m.detail.Update(msg)
	case constants.StateForm:
		m.form, cmd = m.form.Update(msg)
	case constants.StateSearch:
		m.search, cmd = m.search.Update(msg)
	case constants.StateStats:
		m.stats, cmd = m.stats.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleTheme() tea.Cmd {
	next := m.app.Theme().Toggle()
	if err := m.app.SetTheme(next); err != nil {
		return nav.Failure("save theme", err)
	}
	m.applyTheme(next)
	return nil
}
