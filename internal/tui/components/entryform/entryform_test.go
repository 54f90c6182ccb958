package entryform

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
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

func setup(t *testing.T) (Model, *tuitest.Backend, *attachment.Handler) {
	t.Helper()
	b := tuitest.NewBackend(t)
	files := attachment.NewHandler(b.Gateway)
	return New(b.Repo, files, theme.For(models.ThemeDark)), b, files
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

// submit runs Submit and returns only the messages that came back from it
func submit(m Model) (Model, []tea.Msg) {
	cmd := m.Submit()
	msgs := run(&m, cmd)
	return m, msgs
}

func writeJPEG(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func savedID(t *testing.T, msgs []tea.Msg) models.EntryID {
	t.Helper()
	msg, ok := tuitest.Find[nav.ShowDetailMsg](msgs)
	require.True(t, ok, "expected navigation to the saved entry")
	return msg.ID
}

func TestCreateWithoutImage(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")
	f := m.Fields()
	f.Title = "Trip"
	f.Content = "Went hiking"
	f.Date = "2024-05-01"

	m, msgs := submit(m)

	require.Equal(t, StatusDone, m.Status())
	saved, ok := b.Server.Entry(savedID(t, msgs))
	require.True(t, ok)
	require.Equal(t, "Trip", saved.Title)
	require.Equal(t, "Went hiking", saved.Content)
	require.Equal(t, "2024-05-01", saved.DiaryDate.String())
	require.Empty(t, saved.ImagePath)
	require.Equal(t, 0, b.Server.CallCount(http.MethodPost, "/files"))
}

func TestDateDefaultsToToday(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")
	f := m.Fields()
	require.Equal(t, models.Today().String(), f.Date)

	f.Title = "t"
	f.Content = "c"
	f.Date = ""
	_, msgs := submit(m)

	saved, _ := b.Server.Entry(savedID(t, msgs))
	require.Equal(t, models.Today().String(), saved.DiaryDate.String())
}

func TestKeyboardCompletionSavesOnce(t *testing.T) {
	m, b, _ := setup(t)
	run(&m, m.Start(""))

	for _, k := range []string{"Trip", "tab", "Went hiking", "tab", "tab", "enter"} {
		var cmd tea.Cmd
		m, cmd = m.Update(tuitest.Key(k))
		run(&m, cmd)
	}

	require.Equal(t, StatusDone, m.Status())
	require.Equal(t, 1, b.Server.CallCount(http.MethodPost, "/diaries"))

	// unrelated traffic after the save leaves the form alone
	m, cmd := m.Update(nav.ShowListMsg{})
	require.Nil(t, cmd)
	m, cmd = m.Update(tuitest.Key("enter"))
	require.Nil(t, cmd)
	require.Equal(t, StatusDone, m.Status())
	require.Equal(t, 1, b.Server.CallCount(http.MethodPost, "/diaries"))
	require.Zero(t, b.Server.CallCount(http.MethodPut, "/diaries"))
}

func TestValidationBlocksNetwork(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		date    string
		fields  []string
	}{
		{name: "empty title", title: "", content: "body", fields: []string{models.FieldTitle}},
		{name: "whitespace content", title: "t", content: " \n\t", fields: []string{models.FieldContent}},
		{name: "both empty", title: " ", content: "", fields: []string{models.FieldTitle, models.FieldContent}},
		{name: "bad date", title: "t", content: "c", date: "05/01/2024", fields: []string{models.FieldDate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, b, _ := setup(t)
			m.Start("")
			f := m.Fields()
			f.Title, f.Content, f.Date = tt.title, tt.content, tt.date

			m, msgs := submit(m)

			require.Equal(t, StatusIdle, m.Status())
			require.NotNil(t, m.Invalid())
			for _, field := range tt.fields {
				require.NotEmpty(t, m.Invalid().Field(field), field)
			}
			_, navigated := tuitest.Find[nav.ShowDetailMsg](msgs)
			require.False(t, navigated)
			require.Empty(t, b.Server.Calls(), "no request may be sent")
		})
	}
}

func TestCreateWithImageUploadsFirst(t *testing.T) {
	m, b, files := setup(t)
	m.Start("")
	f := m.Fields()
	f.Title = "Beach"
	f.Content = "Sand everywhere"
	require.NoError(t, f.StageImage(writeJPEG(t, 2*1024*1024)))
	require.NotNil(t, f.Staged())
	require.NotEmpty(t, f.Staged().Preview())
	require.Empty(t, b.Server.Calls(), "staging must not touch the network")

	m, msgs := submit(m)

	saved, ok := b.Server.Entry(savedID(t, msgs))
	require.True(t, ok)
	require.NotEmpty(t, saved.ImagePath)
	require.True(t, strings.HasSuffix(saved.ImagePath, ".jpg"))
	require.Equal(t, b.Server.BaseURL()+constants.FilesPath+"/"+saved.ImagePath, files.Resolve(saved.ImagePath))

	data, ok := b.Server.File(saved.ImagePath)
	require.True(t, ok)
	require.Len(t, data, 2*1024*1024)

	calls := b.Server.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "/files/upload", calls[0].Path)
	require.Equal(t, "/diaries", calls[1].Path)

	require.Nil(t, m.Fields().Staged(), "staged file is released after saving")
}

func TestStageRejectsOversizedImage(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")

	err := m.Fields().StageImage(writeJPEG(t, constants.MaxAttachmentBytes+1))

	require.True(t, errors.Is(err, models.ErrFileTooLarge))
	require.Nil(t, m.Fields().Staged())
	require.Empty(t, b.Server.Calls())
}

func TestUploadFailureSkipsSave(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")
	f := m.Fields()
	f.Title, f.Content = "t", "c"
	require.NoError(t, f.StageImage(writeJPEG(t, 1024)))
	b.Server.FailWith(http.MethodPost, "/files/upload", http.StatusInternalServerError)

	m, msgs := submit(m)

	require.Equal(t, StatusFailed, m.Status())
	require.Equal(t, 0, b.Server.CallCount(http.MethodPost, "/diaries"))
	notice, ok := tuitest.Find[nav.NoticeMsg](msgs)
	require.True(t, ok)
	require.Equal(t, constants.NoticeError, notice.Level)
	require.NotNil(t, m.Fields().Staged(), "staged image is kept for the retry")
}

func TestSaveFailureKeepsFieldsForRetry(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")
	f := m.Fields()
	f.Title, f.Content, f.Date = "Retry", "later", "2024-02-02"
	b.Server.FailWith(http.MethodPost, "/diaries", http.StatusServiceUnavailable)

	m, msgs := submit(m)

	require.Equal(t, StatusFailed, m.Status())
	_, navigated := tuitest.Find[nav.ShowDetailMsg](msgs)
	require.False(t, navigated)
	require.Equal(t, "Retry", m.Fields().Title)
	require.Equal(t, "later", m.Fields().Content)
	require.Equal(t, "2024-02-02", m.Fields().Date)

	b.Server.ClearFailures()
	m, msgs = submit(m)
	require.Equal(t, StatusDone, m.Status())
	savedID(t, msgs)
}

func TestEditLoadsAndReplaces(t *testing.T) {
	m, b, _ := setup(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{
		Title:     "Old",
		Content:   "Old body",
		DiaryDate: models.NewDate(2023, 12, 24),
		ImagePath: "tree.png",
	})

	run(&m, m.Start(seeded[0].ID))
	require.Equal(t, StatusIdle, m.Status())
	require.True(t, m.Editing())
	f := m.Fields()
	require.Equal(t, "Old", f.Title)
	require.Equal(t, "2023-12-24", f.Date)
	require.Equal(t, "tree.png", f.ExistingImage())
	require.Contains(t, m.View(), b.Server.BaseURL()+"/files/tree.png")

	f.Title = "New"
	m, msgs := submit(m)

	require.Equal(t, seeded[0].ID, savedID(t, msgs))
	saved, _ := b.Server.Entry(seeded[0].ID)
	require.Equal(t, "New", saved.Title)
	require.Equal(t, "Old body", saved.Content)
	require.Equal(t, "tree.png", saved.ImagePath, "untouched image is kept")
}

func TestEditClearImageSendsEmptyPath(t *testing.T) {
	m, b, _ := setup(t)
	seeded := b.Server.Seed(b.Token, models.EntryInput{
		Title:     "Pic",
		Content:   "with image",
		DiaryDate: models.Today(),
		ImagePath: "cat.gif",
	})
	run(&m, m.Start(seeded[0].ID))

	m.Fields().RemoveImage()
	_, _ = submit(m)

	saved, _ := b.Server.Entry(seeded[0].ID)
	require.Empty(t, saved.ImagePath)
	require.Equal(t, 0, b.Server.CallCount(http.MethodPost, "/files"))
}

func TestEditMissingEntryNavigatesToList(t *testing.T) {
	m, _, _ := setup(t)

	msgs := run(&m, m.Start("404"))

	_, back := tuitest.Find[nav.ShowListMsg](msgs)
	require.True(t, back)
}

func TestCancelReleasesStagedImage(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")
	f := m.Fields()
	require.NoError(t, f.StageImage(writeJPEG(t, 512)))
	staged := f.Staged()

	msgs := tuitest.Drain(m.Cancel())

	require.True(t, staged.Released())
	_, back := tuitest.Find[nav.ShowListMsg](msgs)
	require.True(t, back)
	require.Empty(t, b.Server.Calls())
}

func TestRemoveStagedImageWithoutNetwork(t *testing.T) {
	m, b, _ := setup(t)
	m.Start("")
	f := m.Fields()
	require.NoError(t, f.StageImage(writeJPEG(t, 512)))
	staged := f.Staged()

	f.RemoveImage()

	require.Nil(t, f.Staged())
	require.True(t, staged.Released())
	require.Empty(t, staged.Preview())
	require.False(t, f.ClearImage, "nothing stored to clear on a new entry")
	require.Empty(t, b.Server.Calls())
}
