package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/daybook/internal/models"
)

type IdentityCmd struct {
	Reset bool `help:"Forget the current device identity and request a new one. Existing entries stay with the old identity."`
}

func (c *IdentityCmd) Run(ctx *Context) error {
	bg := context.Background()

	if c.Reset {
		// the stored token is only replaced once the service issues a new one
		id, err := ctx.Identity.Renew(bg)
		if err != nil {
			return err
		}
		ctx.printf("New device identity: %s\n", id.Token)
		return nil
	}

	id := ctx.Identity.EnsureIdentity(bg)
	if !id.Present() {
		ctx.printf("Device identity: %s\n", id.State)
		return fmt.Errorf("%w: is the diary service running at %s?", models.ErrIdentity, ctx.Config.API.BaseURL)
	}
	ctx.printf("Device identity: %s (%s)\n", id.Token, id.State)
	return nil
}
