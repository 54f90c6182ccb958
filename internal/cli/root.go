package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/api"
	"github.com/julianstephens/daybook/internal/app"
	"github.com/julianstephens/daybook/internal/attachment"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/diary"
	"github.com/julianstephens/daybook/internal/identity"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/preferences"
)

type Context struct {
	Config   *config.Config
	Prefs    *preferences.Store
	App      *app.Context
	Gateway  *api.Gateway
	Repo     *diary.Repository
	Files    *attachment.Handler
	Identity *identity.Bootstrapper

	Out io.Writer
	In  io.Reader
}

// NewContext wires the client stack for an opened preference store
func NewContext(cfg *config.Config, prefs *preferences.Store, out io.Writer, in io.Reader) (*Context, error) {
	loaded, err := prefs.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	appCtx := app.New(prefs, loaded.Theme, loaded.IdentityToken)
	gw := api.New(cfg.API, appCtx)

	return &Context{
		Config:   cfg,
		Prefs:    prefs,
		App:      appCtx,
		Gateway:  gw,
		Repo:     diary.NewRepository(gw),
		Files:    attachment.NewHandler(gw),
		Identity: identity.NewBootstrapper(gw, prefs, appCtx),
		Out:      out,
		In:       in,
	}, nil
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// requireIdentity runs the handshake and fails when the service issued nothing
func (c *Context) requireIdentity(ctx context.Context) error {
	if id := c.Identity.EnsureIdentity(ctx); !id.Present() {
		return fmt.Errorf("%w: is the diary service running at %s?", models.ErrIdentity, c.Config.API.BaseURL)
	}
	return nil
}

// confirm asks a yes/no question on In; anything but y/yes is a no
func (c *Context) confirm(question string) (bool, error) {
	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}

func (c *Context) printSummaries(entries []models.DiaryEntrySummary) {
	for _, e := range entries {
		image := ""
		if e.ImagePath != "" {
			image = " 📷"
		}
		c.printf("  [%s] %s  %s%s\n", e.ID, e.DiaryDate, e.Title, image)
		if preview := e.Preview(60); preview != "" {
			c.printf("      %s\n", preview)
		}
	}
}

func (c *Context) printEntry(e models.DiaryEntry) {
	c.printf("%s\n", e.Title)
	c.printf("Date:    %s\n", e.DiaryDate)
	c.printf("ID:      %s\n", e.ID)
	if e.HasImage() {
		c.printf("Image:   %s\n", c.Files.Resolve(e.ImagePath))
	}
	if !e.CreatedAt.IsZero() {
		c.printf("Created: %s\n", humanize.Time(e.CreatedAt.Time))
	}
	if !e.UpdatedAt.IsZero() && !e.UpdatedAt.Equal(e.CreatedAt.Time) {
		c.printf("Updated: %s\n", humanize.Time(e.UpdatedAt.Time))
	}
	c.println()
	c.println(e.Content)
}

func printPageFooter[T any](c *Context, p models.PagedResult[T]) {
	if p.TotalPages > 1 {
		c.printf("\nPage %d of %d\n", p.Page+1, p.TotalPages)
	}
}
