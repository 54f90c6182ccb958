package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	p := tea.NewProgram(tui.NewModel(tui.Deps{
		App:      ctx.App,
		Identity: ctx.Identity,
		Repo:     ctx.Repo,
		Files:    ctx.Files,
		PageSize: ctx.Config.UI.PageSize,
		TopWords: ctx.Config.UI.TopWords,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
