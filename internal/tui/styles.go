package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/constants"
)

func (m Model) noticeStyle(level constants.NoticeLevel) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 2)
	switch level {
	case constants.NoticeError:
		return base.Inherit(m.styles.Danger)
	case constants.NoticeSuccess:
		return base.Inherit(m.styles.Success)
	}
	return base.Inherit(m.styles.Subtle)
}
