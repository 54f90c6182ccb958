package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newGateway(t *testing.T, handler http.HandlerFunc, token string) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.APIConfig{BaseURL: srv.URL + "/api", IdentityHeader: "X-Temp-Id"}, staticToken(token))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestIdentityHeaderAttached(t *testing.T) {
	var got http.Header
	var gotPath string
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}, "device-1")

	var out map[string]string
	require.NoError(t, g.Get(context.Background(), "/diaries", url.Values{"page": {"0"}}, &out))

	require.Equal(t, "/api/diaries", gotPath)
	require.Equal(t, "device-1", got.Get("X-Temp-Id"))
	require.NotEmpty(t, got.Get("X-Request-Id"))
	require.Equal(t, "yes", out["ok"])
}

func TestIdentityHeaderSkippedForHandshake(t *testing.T) {
	var got http.Header
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, map[string]string{"tempId": "new"})
	}, "device-1")

	require.NoError(t, g.Post(context.Background(), "/users/temp", nil, nil))
	require.Empty(t, got.Get("X-Temp-Id"))
	require.NotEmpty(t, got.Get("X-Request-Id"))
}

func TestRequestSentWithoutIdentity(t *testing.T) {
	calls := 0
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Empty(t, r.Header.Get("X-Temp-Id"))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing X-Temp-Id"})
	}, "")

	err := g.Get(context.Background(), "/diaries", nil, nil)
	require.Equal(t, 1, calls)

	var rerr *models.RemoteError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, http.StatusBadRequest, rerr.StatusCode)
	require.Equal(t, "Missing X-Temp-Id", rerr.Message)
	require.Equal(t, "/diaries", rerr.Path)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Diary not found"})
	}, "device-1")

	var entry models.DiaryEntry
	err := g.Get(context.Background(), "/diaries/42", nil, &entry)
	require.True(t, errors.Is(err, models.ErrNotFound))
	require.Contains(t, err.Error(), "Diary not found")
}

func TestFailedRequestLoggedWithRequestID(t *testing.T) {
	require.NoError(t, logger.Init(logger.Config{Dir: t.TempDir()}))
	t.Cleanup(func() { logger.Logger = nil })

	var requestID string
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	}, "device-1")

	require.Error(t, g.Delete(context.Background(), "/diaries/3"))

	data, err := os.ReadFile(logger.File())
	require.NoError(t, err)
	line := string(data)
	require.Contains(t, line, "Request failed")
	require.Contains(t, line, "request_id="+requestID)
	require.Contains(t, line, "method=DELETE")
	require.Contains(t, line, "status=500")
}

func TestTransportErrorIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	g := New(config.APIConfig{BaseURL: base, IdentityHeader: "X-Temp-Id"}, staticToken("device-1"))
	err := g.Delete(context.Background(), "/diaries/1")

	var rerr *models.RemoteError
	require.ErrorAs(t, err, &rerr)
	require.Zero(t, rerr.StatusCode)
	require.NotNil(t, rerr.Err)
	require.False(t, errors.Is(err, models.ErrNotFound))
}

func TestPutSendsJSONBody(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))
		var in models.EntryInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "title": in.Title, "content": in.Content, "diaryDate": in.DiaryDate})
	}, "device-1")

	var out models.DiaryEntry
	in := models.EntryInput{Title: "T", Content: "C", DiaryDate: models.NewDate(2024, 5, 1)}
	require.NoError(t, g.Put(context.Background(), "/diaries/3", in, &out))
	require.Equal(t, models.EntryID("3"), out.ID)
	require.Equal(t, "2024-05-01", out.DiaryDate.String())
}

func TestUploadMultipart(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "device-1", r.Header.Get("X-Temp-Id"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "photo.png", header.Filename)
		require.Equal(t, "payload", string(data))
		writeJSON(w, http.StatusOK, map[string]string{"filename": "abc.png", "message": "ok"})
	}, "device-1")

	var out struct {
		Filename string `json:"filename"`
	}
	require.NoError(t, g.Upload(context.Background(), "/files/upload", "file", "photo.png", strings.NewReader("payload"), &out))
	require.Equal(t, "abc.png", out.Filename)
}
