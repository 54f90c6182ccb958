package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/constants"
)

var tabs = []struct {
	title string
	state constants.SessionState
}{
	{"Entries", constants.StateList},
	{"Search", constants.StateSearch},
	{"Stats", constants.StateStats},
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == constants.StateBootstrapping {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Opening your journal...",
		)
	}

	var content string
	switch m.state {
	case constants.StateList:
		content = m.list.View()
	case constants.StateDetail:
		content = m.detail.View()
	case constants.StateForm:
		content = m.form.View()
	case constants.StateSearch:
		content = m.search.View()
	case constants.StateStats:
		content = m.stats.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.styles.Doc.Render(content),
		m.viewNotice(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var parts []string
	for _, t := range tabs {
		if m.state == t.state {
			parts = append(parts, m.styles.ActiveTab.Render(t.title))
		} else {
			parts = append(parts, m.styles.InactiveTab.Render(t.title))
		}
	}
	if m.busy() {
		parts = append(parts, " "+m.spinner.View())
	}
	if !m.app.Identity().Present() {
		parts = append(parts, m.styles.Warning.Render("  offline"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewNotice() string {
	if m.notice == nil {
		return ""
	}
	return m.noticeStyle(m.notice.Level).Render(m.notice.Text)
}
