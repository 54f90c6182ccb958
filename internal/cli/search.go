package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/daybook/internal/models"
)

type SearchCmd struct {
	Title   string `short:"t" help:"Match entries whose title contains this text." xor:"mode"`
	Content string `short:"c" help:"Match entries whose text contains this." xor:"mode"`
	From    string `help:"Start of a date range (YYYY-MM-DD)." xor:"mode" and:"range"`
	To      string `help:"End of a date range (YYYY-MM-DD)." and:"range"`
	Page    int    `short:"p" help:"Page to show, starting at 1." default:"1"`
}

// Query builds the single search the flags describe
func (c *SearchCmd) Query() (models.SearchQuery, error) {
	var q models.SearchQuery
	switch {
	case c.Title != "":
		q = models.TitleQuery{Text: c.Title}
	case c.Content != "":
		q = models.ContentQuery{Text: c.Content}
	case c.From != "" || c.To != "":
		start, err := models.ParseDate(c.From)
		if err != nil {
			return nil, err
		}
		end, err := models.ParseDate(c.To)
		if err != nil {
			return nil, err
		}
		q = models.DateRangeQuery{Start: start, End: end}
	default:
		return nil, fmt.Errorf("give one of --title, --content or --from/--to")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (c *SearchCmd) Run(ctx *Context) error {
	if c.Page < 1 {
		return fmt.Errorf("page must be 1 or greater")
	}
	q, err := c.Query()
	if err != nil {
		return err
	}

	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}
	result, err := ctx.Repo.Search(bg, q, c.Page-1, ctx.Config.UI.PageSize)
	if err != nil {
		return err
	}
	if result.Empty() {
		ctx.printf("No entries match that %s search\n", q.Mode())
		return nil
	}

	ctx.printf("Matches by %s:\n", q.Mode())
	ctx.printSummaries(result.Items)
	printPageFooter(ctx, result)
	return nil
}
