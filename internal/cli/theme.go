package cli

import (
	"github.com/julianstephens/daybook/internal/models"
)

type ThemeCmd struct {
	Theme string `arg:"" optional:"" help:"light, dark or toggle. Omit to print the current theme."`
}

func (c *ThemeCmd) Run(ctx *Context) error {
	current := ctx.App.Theme()

	var next models.Theme
	switch c.Theme {
	case "":
		ctx.printf("Theme: %s\n", current)
		return nil
	case "toggle":
		next = current.Toggle()
	default:
		theme, err := models.ParseTheme(c.Theme)
		if err != nil {
			return err
		}
		next = theme
	}

	if err := ctx.App.SetTheme(next); err != nil {
		return err
	}
	ctx.printf("Theme set to %s\n", next)
	return nil
}
