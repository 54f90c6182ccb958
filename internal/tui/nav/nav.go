// Package nav holds the messages screens use to ask the shell to navigate
// or to show a notification.
package nav

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/constants"
	apperrors "github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
)

type ShowListMsg struct{}

type ShowDetailMsg struct {
	ID models.EntryID
}

// ShowFormMsg opens the entry form; an empty ID creates a new entry
type ShowFormMsg struct {
	ID models.EntryID
}

type ShowSearchMsg struct{}

type ShowStatsMsg struct{}

type NoticeMsg struct {
	Level constants.NoticeLevel
	Text  string
}

// To returns a command that emits msg
func To(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func Info(text string) tea.Cmd {
	return To(NoticeMsg{Level: constants.NoticeInfo, Text: text})
}

func Success(text string) tea.Cmd {
	return To(NoticeMsg{Level: constants.NoticeSuccess, Text: text})
}

// Failure logs err and turns it into an error notification
func Failure(action string, err error) tea.Cmd {
	logger.Error("Request failed", "action", action, "error", err)
	return To(NoticeMsg{Level: constants.NoticeError, Text: apperrors.Notice(err)})
}
