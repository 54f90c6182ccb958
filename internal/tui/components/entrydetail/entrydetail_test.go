package entrydetail

import (
	"context"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daybook/internal/attachment"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
	"github.com/julianstephens/daybook/internal/tui/tuitest"
)

func newDetail(t *testing.T) (Model, *tuitest.Backend) {
	t.Helper()
	b := tuitest.NewBackend(t)
	return New(b.Repo, attachment.NewHandler(b.Gateway), theme.For(models.ThemeLight)), b
}

func run(m *Model, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := tuitest.Drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		var next tea.Cmd
		*m, next = m.Update(msg)
		queue = append(queue, tuitest.Drain(next)...)
	}
	return seen
}

func TestOpenShowsEntryWithoutImage(t *testing.T) {
	m, b := newDetail(t)
	created, err := b.Repo.Create(context.Background(), models.EntryInput{
		Title:     "Trip",
		Content:   "Went hiking",
		DiaryDate: models.NewDate(2024, 5, 1),
	})
	require.NoError(t, err)

	run(&m, m.Open(created.ID))

	require.Equal(t, StatusReady, m.Status())
	view := m.View()
	require.Contains(t, view, "Trip")
	require.Contains(t, view, "Went hiking")
	require.Contains(t, view, "2024-05-01")
	require.NotContains(t, view, "Image:")
}

func TestOpenShowsResolvedImage(t *testing.T) {
	m, b := newDetail(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{
		Title:     "Beach",
		Content:   "Sunny",
		DiaryDate: models.NewDate(2024, 7, 4),
		ImagePath: "abc.jpg",
	})

	run(&m, m.Open(seeded[0].ID))

	require.Contains(t, m.View(), "Image: "+b.Server.BaseURL()+constants.FilesPath+"/abc.jpg")
}

func TestOpenMissingNavigatesToList(t *testing.T) {
	m, _ := newDetail(t)

	msgs := run(&m, m.Open("999"))

	_, back := tuitest.Find[nav.ShowListMsg](msgs)
	require.True(t, back, "expected navigation back to the list")
	notice, ok := tuitest.Find[nav.NoticeMsg](msgs)
	require.True(t, ok)
	require.Equal(t, constants.NoticeError, notice.Level)
}

func TestOpenFailureStays(t *testing.T) {
	m, b := newDetail(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{Title: "t", Content: "c", DiaryDate: models.Today()})
	b.Server.FailWith(http.MethodGet, "/diaries/", http.StatusInternalServerError)

	msgs := run(&m, m.Open(seeded[0].ID))

	require.Equal(t, StatusFailed, m.Status())
	_, back := tuitest.Find[nav.ShowListMsg](msgs)
	require.False(t, back)

	b.Server.ClearFailures()
	m, cmd := m.Update(tuitest.Key("r"))
	run(&m, cmd)
	require.Equal(t, StatusReady, m.Status())
}

func TestDeleteConfirmedNavigatesToList(t *testing.T) {
	m, b := newDetail(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{Title: "gone", Content: "soon", DiaryDate: models.Today()})
	run(&m, m.Open(seeded[0].ID))

	m, cmd := m.Update(tuitest.Key("d"))
	require.Nil(t, cmd)
	require.True(t, m.Confirming())
	require.Equal(t, 0, b.Server.CallCount(http.MethodDelete, "/diaries"))

	m, cmd = m.Update(tuitest.Key("y"))
	msgs := run(&m, cmd)

	_, back := tuitest.Find[nav.ShowListMsg](msgs)
	require.True(t, back)
	_, exists := b.Server.Entry(seeded[0].ID)
	require.False(t, exists)

	page, err := b.Repo.List(context.Background(), 0, 9)
	require.NoError(t, err)
	for _, e := range page.Items {
		require.NotEqual(t, seeded[0].ID, e.ID)
	}
}

func TestDeleteFailureStays(t *testing.T) {
	m, b := newDetail(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{Title: "keep", Content: "me", DiaryDate: models.Today()})
	run(&m, m.Open(seeded[0].ID))
	b.Server.FailWith(http.MethodDelete, "/diaries/", http.StatusInternalServerError)

	m, _ = m.Update(tuitest.Key("d"))
	m, cmd := m.Update(tuitest.Key("y"))
	msgs := run(&m, cmd)

	require.Equal(t, StatusReady, m.Status())
	require.Equal(t, "keep", m.Entry().Title)
	_, back := tuitest.Find[nav.ShowListMsg](msgs)
	require.False(t, back)
	_, ok := tuitest.Find[nav.NoticeMsg](msgs)
	require.True(t, ok)
}

func TestStaleLoadDropped(t *testing.T) {
	m, b := newDetail(t)
	seeded := b.Server.Seed(b.Token,
		models.EntryInput{Title: "first", Content: "a", DiaryDate: models.Today()},
		models.EntryInput{Title: "second", Content: "b", DiaryDate: models.Today()},
	)

	older := m.Open(seeded[0].ID)
	newer := m.Open(seeded[1].ID)
	run(&m, newer)
	run(&m, older)

	require.Equal(t, "second", m.Entry().Title)
}

func TestEditNavigatesToForm(t *testing.T) {
	m, b := newDetail(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{Title: "t", Content: "c", DiaryDate: models.Today()})
	run(&m, m.Open(seeded[0].ID))

	_, cmd := m.Update(tuitest.Key("e"))
	msg, ok := tuitest.Find[nav.ShowFormMsg](tuitest.Drain(cmd))
	require.True(t, ok)
	require.Equal(t, seeded[0].ID, msg.ID)
	require.False(t, strings.Contains(m.View(), "Are you sure"))
}
