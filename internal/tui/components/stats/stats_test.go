package stats

import (
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/nav"
	"github.com/julianstephens/daybook/internal/tui/theme"
	"github.com/julianstephens/daybook/internal/tui/tuitest"
)

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

func TestLoadStatistics(t *testing.T) {
	b := tuitest.NewBackend(t)
	b.Server.Seed(b.Token,
		models.EntryInput{Title: "a", Content: "coffee and rain", DiaryDate: models.NewDate(2024, time.May, 1)},
		models.EntryInput{Title: "b", Content: "coffee again", DiaryDate: models.NewDate(2024, time.May, 2)},
		models.EntryInput{Title: "c", Content: "snow", DiaryDate: models.NewDate(2023, time.December, 24)},
	)
	m := New(b.Repo, 2, theme.For(models.ThemeDark))

	run(&m, m.Load())

	if m.Status() != StatusReady {
		t.Fatalf("status = %v, want ready", m.Status())
	}
	s := m.Stats()
	if s.TotalEntries != 3 {
		t.Errorf("total = %d, want 3", s.TotalEntries)
	}
	if len(s.Monthly) != 2 || s.Monthly[0].Label() != "2024-05" {
		t.Errorf("monthly = %+v, want newest month first", s.Monthly)
	}

	view := m.View()
	for _, want := range []string{"3 entries", "May 2024", "Dec 2023", "coffee"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, " 3. ") {
		t.Error("view shows more than the configured number of words")
	}
}

func TestEveryLoadFetches(t *testing.T) {
	b := tuitest.NewBackend(t)
	m := New(b.Repo, 10, theme.For(models.ThemeLight))

	run(&m, m.Load())
	b.Server.Seed(b.Token, models.EntryInput{Title: "new", Content: "fresh", DiaryDate: models.Today()})
	m, cmd := m.Update(tuitest.Key("r"))
	run(&m, cmd)

	if got := b.Server.CallCount(http.MethodGet, "/statistics"); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	if m.Stats().TotalEntries != 1 {
		t.Errorf("total = %d, want the fresh count", m.Stats().TotalEntries)
	}
}

func TestLoadFailure(t *testing.T) {
	b := tuitest.NewBackend(t)
	b.Server.FailWith(http.MethodGet, "/statistics", http.StatusInternalServerError)
	m := New(b.Repo, 10, theme.For(models.ThemeLight))

	msgs := run(&m, m.Load())

	if m.Status() != StatusFailed {
		t.Errorf("status = %v, want failed", m.Status())
	}
	if _, ok := tuitest.Find[nav.NoticeMsg](msgs); !ok {
		t.Error("expected an error notice")
	}
}
