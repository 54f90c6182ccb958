package cli

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
)

type StatsCmd struct {
	Top int `help:"Number of frequent words to show (defaults to ui.top_words)."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}

	stats, err := ctx.Repo.Statistics(bg)
	if err != nil {
		return err
	}

	ctx.printf("Total entries: %s\n", humanize.Comma(int64(stats.TotalEntries)))
	if len(stats.Monthly) > 0 {
		ctx.println()
		ctx.println("By month:")
		max := stats.MaxMonthly()
		for _, m := range stats.Monthly {
			width := 0
			if max > 0 {
				width = m.Count * 30 / max
			}
			ctx.printf("  %-8s %s %d\n", m.MonthName(), strings.Repeat("█", width), m.Count)
		}
	}

	top := c.Top
	if top == 0 {
		top = ctx.Config.UI.TopWords
	}
	if words := stats.TopWords(top); len(words) > 0 {
		ctx.println()
		ctx.println("Frequent words:")
		for i, w := range words {
			ctx.printf("  %2d. %-20s %s\n", i+1, w.Word, humanize.Comma(int64(w.Frequency)))
		}
	}
	return nil
}
