package app

import (
	"fmt"
	"sync"

	"github.com/julianstephens/daybook/internal/models"
)

// Persister is the part of the preference store the context writes through to
type Persister interface {
	SetTheme(theme models.Theme) error
	SetIdentityToken(token string) error
}

// Context carries the session-wide theme and identity. It is built once at
// startup and handed to the gateway and every screen.
type Context struct {
	mu        sync.RWMutex
	theme     models.Theme
	identity  models.Identity
	persisted string
	store     Persister
}

// New seeds the context from persisted values. A stored token starts out
// pending until the bootstrapper confirms it.
func New(store Persister, theme models.Theme, token string) *Context {
	if theme == "" {
		theme = models.ThemeLight
	}
	return &Context{
		theme:     theme,
		identity:  models.PendingIdentity(token),
		persisted: token,
		store:     store,
	}
}

func (c *Context) Theme() models.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.theme
}

func (c *Context) Identity() models.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Token is the header value for outbound requests, "" when absent
func (c *Context) Token() string {
	return c.Identity().Token
}

// SetTheme changes and persists the theme. The in-memory value only changes
// when the write succeeds.
func (c *Context) SetTheme(theme models.Theme) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		if err := c.store.SetTheme(theme); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
	}
	c.theme = theme
	return nil
}

// SetIdentity installs id for subsequent requests. A new token is persisted;
// an absent identity is never written, so a failed handshake leaves the
// stored value alone.
func (c *Context) SetIdentity(id models.Identity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.identity = id
	if !id.Present() || id.Token == c.persisted || c.store == nil {
		return nil
	}
	if err := c.store.SetIdentityToken(id.Token); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	c.persisted = id.Token
	return nil
}
