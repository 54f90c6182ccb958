package identity

import (
	"context"
	"fmt"
	"net/url"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
)

// Remote is the slice of the gateway the handshake needs
type Remote interface {
	Get(ctx context.Context, path string, query url.Values, result any) error
	Post(ctx context.Context, path string, body, result any) error
}

// TokenStore reads the persisted device token
type TokenStore interface {
	IdentityToken() (string, error)
}

// Sink receives the resulting identity; it persists new tokens
type Sink interface {
	SetIdentity(id models.Identity) error
}

// Bootstrapper obtains the anonymous device identity before any data request
type Bootstrapper struct {
	remote Remote
	store  TokenStore
	sink   Sink
}

func NewBootstrapper(remote Remote, store TokenStore, sink Sink) *Bootstrapper {
	return &Bootstrapper{remote: remote, store: store, sink: sink}
}

type validateResponse struct {
	Valid *bool `json:"valid"`
}

type tempUserResponse struct {
	TempID string `json:"tempId"`
}

// EnsureIdentity returns a confirmed identity, or an absent one when the
// service cannot issue a token. It never fails: callers render regardless and
// later data requests surface the missing identity as remote errors.
func (b *Bootstrapper) EnsureIdentity(ctx context.Context) models.Identity {
	token, err := b.store.IdentityToken()
	if err != nil {
		logger.Warn("Failed to read stored identity", "error", err)
		token = ""
	}

	if token != "" {
		err := b.validate(ctx, token)
		if err == nil {
			return b.install(models.ConfirmedIdentity(token))
		}
		logger.Warn("Stored identity rejected, requesting a new one", "error", err)
	}

	id, err := b.create(ctx)
	if err != nil {
		logger.Warn("Identity handshake failed", "error", err)
		return b.install(models.Identity{})
	}
	return b.install(id)
}

// Renew discards any current identity and requests a fresh one
func (b *Bootstrapper) Renew(ctx context.Context) (models.Identity, error) {
	id, err := b.create(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	return b.install(id), nil
}

func (b *Bootstrapper) validate(ctx context.Context, token string) error {
	var resp validateResponse
	if err := b.remote.Get(ctx, "/users/validate/"+url.PathEscape(token), nil, &resp); err != nil {
		return err
	}
	if resp.Valid != nil && !*resp.Valid {
		return fmt.Errorf("service reports token as invalid")
	}
	return nil
}

func (b *Bootstrapper) create(ctx context.Context) (models.Identity, error) {
	var resp tempUserResponse
	if err := b.remote.Post(ctx, "/users/temp", nil, &resp); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", models.ErrIdentity, err)
	}
	if resp.TempID == "" {
		return models.Identity{}, fmt.Errorf("%w: service returned an empty token", models.ErrIdentity)
	}
	logger.Info("Obtained new device identity")
	return models.ConfirmedIdentity(resp.TempID), nil
}

func (b *Bootstrapper) install(id models.Identity) models.Identity {
	if err := b.sink.SetIdentity(id); err != nil {
		logger.Warn("Failed to persist identity", "error", err)
	}
	return id
}
