package diary

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daybook/internal/api"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/diary/diarytest"
	"github.com/julianstephens/daybook/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newRepo(t *testing.T) (*Repository, *diarytest.Server, string) {
	t.Helper()
	srv := diarytest.NewServer(t)
	token := srv.IssueToken()
	gw := api.New(config.APIConfig{BaseURL: srv.BaseURL(), IdentityHeader: "X-Temp-Id"}, staticToken(token))
	return NewRepository(gw), srv, token
}

func input(title string, y, m, d int) models.EntryInput {
	return models.EntryInput{Title: title, Content: title + " content", DiaryDate: models.NewDate(y, time.Month(m), d)}
}

func TestCreateGetRoundTrip(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.EntryInput{
		Title:     "Trip",
		Content:   "Went hiking",
		DiaryDate: models.NewDate(2024, 5, 1),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Trip", got.Title)
	require.Equal(t, "Went hiking", got.Content)
	require.Equal(t, "2024-05-01", got.DiaryDate.String())
	require.False(t, got.HasImage())
	require.False(t, got.CreatedAt.IsZero())
}

func TestListPagesNewestFirst(t *testing.T) {
	repo, srv, token := newRepo(t)
	srv.Seed(token,
		input("jan", 2024, 1, 1),
		input("mar", 2024, 3, 1),
		input("feb", 2024, 2, 1),
	)

	first, err := repo.List(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Equal(t, 0, first.Page)
	require.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Items, 2)
	require.Equal(t, "mar", first.Items[0].Title)
	require.Equal(t, "feb", first.Items[1].Title)

	second, err := repo.List(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, second.Page)
	require.Equal(t, "jan", second.Items[0].Title)
	require.False(t, second.HasNext())
}

func TestListEmpty(t *testing.T) {
	repo, _, _ := newRepo(t)

	res, err := repo.List(context.Background(), 0, 9)
	require.NoError(t, err)
	require.True(t, res.Empty())
	require.Zero(t, res.TotalPages)
	require.Zero(t, res.Page)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	repo, srv, token := newRepo(t)
	seeded := srv.Seed(token, models.EntryInput{
		Title: "old", Content: "old", DiaryDate: models.NewDate(2024, 1, 1), ImagePath: "pic.png",
	})

	updated, err := repo.Update(context.Background(), seeded[0].ID, models.EntryInput{
		Title: "new", Content: "new body", DiaryDate: models.NewDate(2024, 2, 2),
	})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Title)
	require.Empty(t, updated.ImagePath, "an empty imagePath clears the attachment")

	stored, _ := srv.Entry(seeded[0].ID)
	require.Equal(t, "2024-02-02", stored.DiaryDate.String())
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	repo, srv, token := newRepo(t)
	seeded := srv.Seed(token, input("gone", 2024, 1, 1))

	require.NoError(t, repo.Delete(context.Background(), seeded[0].ID))

	_, err := repo.Get(context.Background(), seeded[0].ID)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSearchSendsOnlyActiveMode(t *testing.T) {
	repo, srv, token := newRepo(t)
	srv.Seed(token,
		models.EntryInput{Title: "Hiking trip", Content: "mountains", DiaryDate: models.NewDate(2024, 5, 1)},
		models.EntryInput{Title: "Work", Content: "long trip to the office", DiaryDate: models.NewDate(2024, 6, 1)},
	)
	ctx := context.Background()

	byTitle, err := repo.Search(ctx, models.TitleQuery{Text: "trip"}, 0, 9)
	require.NoError(t, err)
	require.Len(t, byTitle.Items, 1)
	require.Equal(t, "Hiking trip", byTitle.Items[0].Title)

	byContent, err := repo.Search(ctx, models.ContentQuery{Text: "trip"}, 0, 9)
	require.NoError(t, err)
	require.Len(t, byContent.Items, 1)
	require.Equal(t, "Work", byContent.Items[0].Title)

	byDate, err := repo.Search(ctx, models.DateRangeQuery{
		Start: models.NewDate(2023, 1, 1), End: models.NewDate(2023, 12, 31),
	}, 0, 9)
	require.NoError(t, err)
	require.True(t, byDate.Empty())
	require.Zero(t, byDate.TotalPages)

	for _, c := range srv.Calls() {
		if c.Path != "/diaries/search" {
			continue
		}
		modes := 0
		for _, key := range []string{"title", "content", "startDate"} {
			if _, ok := c.Query[key]; ok {
				modes++
			}
		}
		require.Equal(t, 1, modes, "search sent %v", c.Query)
	}
}

func TestSearchWithoutQuery(t *testing.T) {
	repo, srv, _ := newRepo(t)
	_, err := repo.Search(context.Background(), nil, 0, 9)
	require.Error(t, err)
	require.Zero(t, srv.CallCount(http.MethodGet, "/diaries/search"))
}

func TestStatistics(t *testing.T) {
	repo, srv, token := newRepo(t)
	srv.Seed(token,
		models.EntryInput{Title: "a", Content: "sunny walk walk", DiaryDate: models.NewDate(2024, 5, 1)},
		models.EntryInput{Title: "b", Content: "rainy walk", DiaryDate: models.NewDate(2024, 5, 9)},
		models.EntryInput{Title: "c", Content: "sunny", DiaryDate: models.NewDate(2024, 4, 2)},
	)

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalEntries)
	require.Equal(t, []models.MonthlyCount{{Year: 2024, Month: 5, Count: 2}, {Year: 2024, Month: 4, Count: 1}}, stats.Monthly)
	require.Equal(t, "walk", stats.Words[0].Word)
	require.Equal(t, 3, stats.Words[0].Frequency)
}

func TestRemoteFailurePropagates(t *testing.T) {
	repo, srv, _ := newRepo(t)
	srv.FailWith(http.MethodGet, "/diaries", http.StatusInternalServerError)

	_, err := repo.List(context.Background(), 0, 9)
	var rerr *models.RemoteError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, http.StatusInternalServerError, rerr.StatusCode)
	require.Equal(t, 1, srv.CallCount(http.MethodGet, "/diaries"), "no retries")
}
