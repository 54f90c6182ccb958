package diary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/julianstephens/daybook/internal/models"
)

// Remote is the gateway surface the repository maps onto
type Remote interface {
	Get(ctx context.Context, path string, query url.Values, result any) error
	Post(ctx context.Context, path string, body, result any) error
	Put(ctx context.Context, path string, body, result any) error
	Delete(ctx context.Context, path string) error
}

// Repository is a typed, stateless mapping of diary operations onto the
// remote service. Failures come back exactly as the gateway reported them.
type Repository struct {
	remote Remote
}

func NewRepository(remote Remote) *Repository {
	return &Repository{remote: remote}
}

// page mirrors the service's paged listing body
type page struct {
	Content    []models.DiaryEntrySummary `json:"content"`
	TotalPages int                        `json:"totalPages"`
	Number     *int                       `json:"number"`
}

func (p page) result(requested int) models.PagedResult[models.DiaryEntrySummary] {
	current := requested
	if p.Number != nil {
		current = *p.Number
	}
	return models.NewPagedResult(p.Content, current, p.TotalPages)
}

func entryPath(id models.EntryID) string {
	return "/diaries/" + url.PathEscape(id.String())
}

func pageParams(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

// List returns one zero-based page of entries, newest diary date first
func (r *Repository) List(ctx context.Context, pageIndex, pageSize int) (models.PagedResult[models.DiaryEntrySummary], error) {
	var body page
	if err := r.remote.Get(ctx, "/diaries", pageParams(pageIndex, pageSize), &body); err != nil {
		return models.PagedResult[models.DiaryEntrySummary]{}, err
	}
	return body.result(pageIndex), nil
}

// Get fails with an error matching models.ErrNotFound when id does not resolve
func (r *Repository) Get(ctx context.Context, id models.EntryID) (models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := r.remote.Get(ctx, entryPath(id), nil, &entry); err != nil {
		return models.DiaryEntry{}, err
	}
	return entry, nil
}

// Create expects input that already passed validation
func (r *Repository) Create(ctx context.Context, in models.EntryInput) (models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := r.remote.Post(ctx, "/diaries", in, &entry); err != nil {
		return models.DiaryEntry{}, err
	}
	return entry, nil
}

// Update replaces every field of the entry
func (r *Repository) Update(ctx context.Context, id models.EntryID, in models.EntryInput) (models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := r.remote.Put(ctx, entryPath(id), in, &entry); err != nil {
		return models.DiaryEntry{}, err
	}
	return entry, nil
}

func (r *Repository) Delete(ctx context.Context, id models.EntryID) error {
	return r.remote.Delete(ctx, entryPath(id))
}

// Search sends exactly the parameters of the one mode q carries
func (r *Repository) Search(ctx context.Context, q models.SearchQuery, pageIndex, pageSize int) (models.PagedResult[models.DiaryEntrySummary], error) {
	if q == nil {
		return models.PagedResult[models.DiaryEntrySummary]{}, fmt.Errorf("search: no query")
	}
	params := q.Params()
	for k, v := range pageParams(pageIndex, pageSize) {
		params[k] = v
	}

	var body page
	if err := r.remote.Get(ctx, "/diaries/search", params, &body); err != nil {
		return models.PagedResult[models.DiaryEntrySummary]{}, err
	}
	return body.result(pageIndex), nil
}

// Statistics fetches a fresh snapshot; nothing is cached between calls
func (r *Repository) Statistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	if err := r.remote.Get(ctx, "/statistics", nil, &stats); err != nil {
		return models.Statistics{}, err
	}
	return stats, nil
}
