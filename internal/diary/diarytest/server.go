// Package diarytest provides an in-memory diary service for tests.
package diarytest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/models"
)

const identityHeader = "X-Temp-Id"

// Call records one request the server received
type Call struct {
	Method   string
	Path     string // path below /api
	Query    map[string][]string
	Identity string
}

type entry struct {
	models.DiaryEntry
	owner string
}

type failure struct {
	method string
	prefix string
	status int
}

// Server mimics the remote diary service, partitioning entries by the
// identity header the same way the real one does.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	entries  map[string]*entry
	tokens   map[string]bool
	files    map[string][]byte
	calls    []Call
	failures []failure
}

// NewServer starts a server that is closed when t finishes
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		entries: make(map[string]*entry),
		tokens:  make(map[string]bool),
		files:   make(map[string][]byte),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root, equivalent to http://host/api
func (s *Server) BaseURL() string { return s.URL + "/api" }

// IssueToken registers a valid identity without going through the handshake
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked()
}

func (s *Server) issueLocked() string {
	token := uuid.NewString()
	s.tokens[token] = true
	return token
}

// Seed stores entries for owner directly and returns them with ids assigned
func (s *Server) Seed(owner string, inputs ...models.EntryInput) []models.DiaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DiaryEntry, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, s.createLocked(owner, in).DiaryEntry)
	}
	return out
}

// Entry looks up an entry regardless of owner
func (s *Server) Entry(id models.EntryID) (models.DiaryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id.String()]
	if !ok {
		return models.DiaryEntry{}, false
	}
	return e.DiaryEntry, true
}

// File returns an uploaded file's bytes
func (s *Server) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Calls returns a copy of every recorded request
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts requests with the given method whose path starts with prefix
func (s *Server) CallCount(method, prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

// FailWith makes matching requests answer with status until ClearFailures
func (s *Server) FailWith(method, prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, prefix: prefix, status: status})
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = nil
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, "/api")
	identity := r.Header.Get(identityHeader)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Method: r.Method, Path: p, Query: r.URL.Query(), Identity: identity})
	for _, f := range s.failures {
		if f.method == r.Method && strings.HasPrefix(p, f.prefix) {
			writeJSON(w, f.status, map[string]string{"error": http.StatusText(f.status)})
			return
		}
	}

	switch {
	case r.Method == http.MethodPost && p == "/users/temp":
		writeJSON(w, http.StatusOK, map[string]string{"tempId": s.issueLocked()})
		return
	case r.Method == http.MethodGet && strings.HasPrefix(p, "/users/validate/"):
		token := strings.TrimPrefix(p, "/users/validate/")
		writeJSON(w, http.StatusOK, map[string]any{"valid": s.tokens[token], "tempId": token})
		return
	case r.Method == http.MethodGet && strings.HasPrefix(p, "/files/"):
		data, ok := s.files[path.Base(p)]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
		return
	}

	if !s.tokens[identity] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or missing " + identityHeader})
		return
	}

	switch {
	case r.Method == http.MethodGet && p == "/diaries":
		s.writePage(w, r, s.owned(identity, func(*entry) bool { return true }))
	case r.Method == http.MethodGet && p == "/diaries/search":
		s.writePage(w, r, s.owned(identity, searchFilter(r)))
	case r.Method == http.MethodPost && p == "/diaries":
		var in models.EntryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s.createLocked(identity, in).DiaryEntry)
	case strings.HasPrefix(p, "/diaries/"):
		s.serveEntry(w, r, identity, strings.TrimPrefix(p, "/diaries/"))
	case r.Method == http.MethodPost && p == "/files/upload":
		s.serveUpload(w, r)
	case r.Method == http.MethodGet && p == "/statistics":
		writeJSON(w, http.StatusOK, s.statistics(identity))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) serveEntry(w http.ResponseWriter, r *http.Request, identity, id string) {
	e, ok := s.entries[id]
	if !ok || e.owner != identity {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, e.DiaryEntry)
	case http.MethodPut:
		var in models.EntryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		e.Title, e.Content, e.DiaryDate, e.ImagePath = in.Title, in.Content, in.DiaryDate, in.ImagePath
		e.UpdatedAt = models.Timestamp{Time: time.Now()}
		writeJSON(w, http.StatusOK, e.DiaryEntry)
	case http.MethodDelete:
		delete(s.entries, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

var allowedExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}

func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "File is empty"})
		return
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(header.Filename), "."))
	if !allowedExtensions[ext] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unsupported file type"})
		return
	}

	name := uuid.NewString() + "." + ext
	s.files[name] = data
	writeJSON(w, http.StatusOK, map[string]string{"filename": name, "message": "uploaded"})
}

func (s *Server) createLocked(owner string, in models.EntryInput) *entry {
	s.nextID++
	now := models.Timestamp{Time: time.Now()}
	e := &entry{
		owner: owner,
		DiaryEntry: models.DiaryEntry{
			ID:        models.EntryID(strconv.Itoa(s.nextID)),
			Title:     in.Title,
			Content:   in.Content,
			DiaryDate: in.DiaryDate,
			ImagePath: in.ImagePath,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	s.entries[e.ID.String()] = e
	return e
}

// owned returns matching entries for identity, newest diary date first
func (s *Server) owned(identity string, keep func(*entry) bool) []*entry {
	var out []*entry
	for _, e := range s.entries {
		if e.owner == identity && keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DiaryDate.Time().Equal(out[j].DiaryDate.Time()) {
			return out[i].DiaryDate.After(out[j].DiaryDate)
		}
		a, _ := strconv.Atoi(out[i].ID.String())
		b, _ := strconv.Atoi(out[j].ID.String())
		return a > b
	})
	return out
}

// searchFilter applies the service's precedence: title, then content, then dates
func searchFilter(r *http.Request) func(*entry) bool {
	q := r.URL.Query()
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	switch {
	case q.Get("title") != "":
		return func(e *entry) bool { return contains(e.Title, q.Get("title")) }
	case q.Get("content") != "":
		return func(e *entry) bool { return contains(e.Content, q.Get("content")) }
	case q.Get("startDate") != "" && q.Get("endDate") != "":
		start, _ := models.ParseDate(q.Get("startDate"))
		end, _ := models.ParseDate(q.Get("endDate"))
		return func(e *entry) bool { return !e.DiaryDate.Before(start) && !e.DiaryDate.After(end) }
	default:
		return func(*entry) bool { return true }
	}
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, all []*entry) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}

	totalPages := (len(all) + size - 1) / size
	content := []models.DiaryEntrySummary{}
	for i := page * size; i < len(all) && i < (page+1)*size; i++ {
		e := all[i]
		content = append(content, models.DiaryEntrySummary{
			ID:        e.ID,
			Title:     e.Title,
			Content:   e.Content,
			DiaryDate: e.DiaryDate,
			ImagePath: e.ImagePath,
			CreatedAt: e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"content":       content,
		"totalPages":    totalPages,
		"totalElements": len(all),
		"number":        page,
		"size":          size,
	})
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
}

func (s *Server) statistics(identity string) models.Statistics {
	entries := s.owned(identity, func(*entry) bool { return true })

	monthly := map[[2]int]int{}
	words := map[string]int{}
	for _, e := range entries {
		t := e.DiaryDate.Time()
		monthly[[2]int{t.Year(), int(t.Month())}]++
		for _, w := range strings.Fields(e.Content) {
			w = strings.ToLower(w)
			if len([]rune(w)) > 1 && !stopWords[w] {
				words[w]++
			}
		}
	}

	stats := models.Statistics{TotalEntries: len(entries)}
	for k, n := range monthly {
		stats.Monthly = append(stats.Monthly, models.MonthlyCount{Year: k[0], Month: k[1], Count: n})
	}
	sort.Slice(stats.Monthly, func(i, j int) bool {
		a, b := stats.Monthly[i], stats.Monthly[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	for word, n := range words {
		stats.Words = append(stats.Words, models.WordFrequency{Word: word, Frequency: n})
	}
	sort.Slice(stats.Words, func(i, j int) bool {
		if stats.Words[i].Frequency != stats.Words[j].Frequency {
			return stats.Words[i].Frequency > stats.Words[j].Frequency
		}
		return stats.Words[i].Word < stats.Words[j].Word
	})
	if len(stats.Words) > 20 {
		stats.Words = stats.Words[:20]
	}
	return stats
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
