// Package entryitem renders diary entry summaries inside a bubbles list.
package entryitem

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/theme"
)

const previewLength = 60

type Item struct {
	Entry models.DiaryEntrySummary
}

func (i Item) Title() string {
	if i.Entry.ImagePath != "" {
		return i.Entry.Title + " 📷"
	}
	return i.Entry.Title
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | %s", i.Entry.DiaryDate, i.Entry.Preview(previewLength))
}

func (i Item) FilterValue() string { return i.Entry.Title }

// Items wraps summaries for list.SetItems
func Items(entries []models.DiaryEntrySummary) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

// NewList builds a list with filtering, local paging and its own quit keys
// disabled; paging is done by the service.
func NewList(styles theme.Styles, width, height int) list.Model {
	l := list.New(nil, Delegate(styles), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.NextPage.SetEnabled(false)
	l.KeyMap.PrevPage.SetEnabled(false)
	return l
}

// Delegate returns the default delegate tinted with the theme accent
func Delegate(styles theme.Styles) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(styles.AccentColor).
		BorderForeground(styles.AccentColor)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		BorderForeground(styles.AccentColor)
	return d
}

// Selected returns the summary under the cursor
func Selected(l list.Model) (models.DiaryEntrySummary, bool) {
	if i, ok := l.SelectedItem().(Item); ok {
		return i.Entry, true
	}
	return models.DiaryEntrySummary{}, false
}
