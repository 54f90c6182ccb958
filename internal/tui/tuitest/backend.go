package tuitest

import (
	"testing"

	"github.com/julianstephens/daybook/internal/api"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/diary"
	"github.com/julianstephens/daybook/internal/diary/diarytest"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// Backend is a fake diary service plus the client stack pointed at it
type Backend struct {
	Server  *diarytest.Server
	Gateway *api.Gateway
	Repo    *diary.Repository
	Token   string
}

// NewBackend starts a fake service and a gateway that already holds a valid identity
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	srv := diarytest.NewServer(t)
	token := srv.IssueToken()
	gw := api.New(config.APIConfig{
		BaseURL:        srv.BaseURL(),
		IdentityHeader: constants.DefaultIdentityHeader,
	}, staticToken(token))
	return &Backend{Server: srv, Gateway: gw, Repo: diary.NewRepository(gw), Token: token}
}
