package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/daybook/internal/attachment"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/models"
)

type ListCmd struct {
	Page int `short:"p" help:"Page to show, starting at 1." default:"1"`
	Size int `short:"n" help:"Entries per page (defaults to ui.page_size)."`
}

func (c *ListCmd) Validate() error {
	if c.Page < 1 {
		return fmt.Errorf("page must be 1 or greater")
	}
	if c.Size < 0 {
		return fmt.Errorf("size must not be negative")
	}
	return nil
}

func (c *ListCmd) Run(ctx *Context) error {
	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}

	size := c.Size
	if size == 0 {
		size = ctx.Config.UI.PageSize
	}
	result, err := ctx.Repo.List(bg, c.Page-1, size)
	if err != nil {
		return err
	}
	if result.Empty() {
		ctx.println("No entries found")
		return nil
	}

	ctx.println("Entries:")
	ctx.printSummaries(result.Items)
	printPageFooter(ctx, result)
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"ID of the entry to show."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}

	entry, err := ctx.Repo.Get(bg, models.EntryID(c.ID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("no entry with id %s", c.ID)
		}
		return err
	}
	ctx.printEntry(entry)
	return nil
}

type AddCmd struct {
	Title   string `short:"t" help:"Entry title." required:""`
	Content string `short:"c" help:"Entry text." required:""`
	Date    string `short:"d" help:"Diary date (YYYY-MM-DD). Defaults to today."`
	Image   string `short:"i" help:"Image to attach (JPG, PNG or GIF, at most 5 MiB)." type:"path"`
}

func (c *AddCmd) Run(ctx *Context) error {
	date, err := models.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = models.Today()
	}

	in := models.EntryInput{Title: c.Title, Content: c.Content, DiaryDate: date}
	if err := in.Validate(); err != nil {
		return err
	}

	staged, err := stageImage(c.Image)
	if err != nil {
		return err
	}
	defer staged.Release()

	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}
	if staged != nil {
		if in.ImagePath, err = ctx.Files.Upload(bg, staged); err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
	}

	entry, err := ctx.Repo.Create(bg, in)
	if err != nil {
		return err
	}
	ctx.printf("Added entry: %s (ID: %s)\n", entry.Title, entry.ID)
	return nil
}

// EditCmd replaces an entry. Flags left out keep the entry's current value.
type EditCmd struct {
	ID         string `arg:"" help:"ID of the entry to edit."`
	Title      string `short:"t" help:"New title."`
	Content    string `short:"c" help:"New text."`
	Date       string `short:"d" help:"New diary date (YYYY-MM-DD)."`
	Image      string `short:"i" help:"Replace the image with this file." type:"path" xor:"image"`
	ClearImage bool   `help:"Remove the current image." xor:"image"`
}

func (c *EditCmd) Run(ctx *Context) error {
	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}

	current, err := ctx.Repo.Get(bg, models.EntryID(c.ID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("no entry with id %s", c.ID)
		}
		return err
	}

	in := current.Input()
	if c.Title != "" {
		in.Title = c.Title
	}
	if c.Content != "" {
		in.Content = c.Content
	}
	if c.Date != "" {
		if in.DiaryDate, err = models.ParseDate(c.Date); err != nil {
			return err
		}
	}
	if c.ClearImage {
		in.ImagePath = ""
	}
	if err := in.Validate(); err != nil {
		return err
	}

	staged, err := stageImage(c.Image)
	if err != nil {
		return err
	}
	defer staged.Release()
	if staged != nil {
		if in.ImagePath, err = ctx.Files.Upload(bg, staged); err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
	}

	entry, err := ctx.Repo.Update(bg, current.ID, in)
	if err != nil {
		return err
	}
	ctx.printf("Updated entry: %s (ID: %s)\n", entry.Title, entry.ID)
	return nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"ID of the entry to delete."`
	Yes bool   `short:"y" help:"Delete without asking."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	bg := context.Background()
	if err := ctx.requireIdentity(bg); err != nil {
		return err
	}

	id := models.EntryID(c.ID)
	if !c.Yes {
		entry, err := ctx.Repo.Get(bg, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("no entry with id %s", c.ID)
			}
			return err
		}
		ok, err := ctx.confirm(fmt.Sprintf("Delete %q from %s?", entry.Title, entry.DiaryDate))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Repo.Delete(bg, id); err != nil {
		return err
	}
	ctx.printf("Deleted entry %s\n", c.ID)
	return nil
}

// stageImage stages path for upload; an empty path stages nothing
func stageImage(path string) (*attachment.StagedFile, error) {
	if path == "" {
		return nil, nil
	}
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return attachment.StageFile(path)
}
