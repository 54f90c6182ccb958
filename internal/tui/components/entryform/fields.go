package entryform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/attachment"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/models"
)

// Fields holds the values the huh inputs are bound to. It lives behind a
// pointer so the form keeps writing to the same struct when the model is
// copied.
type Fields struct {
	Title      string
	Content    string
	Date       string
	ImagePath  string // local file to attach
	ClearImage bool

	existingImage string
	staged        *attachment.StagedFile
	stagedFrom    string
}

func newFields() *Fields {
	return &Fields{Date: models.Today().String()}
}

func fieldsFor(e models.DiaryEntry) *Fields {
	return &Fields{
		Title:         e.Title,
		Content:       e.Content,
		Date:          e.DiaryDate.String(),
		existingImage: e.ImagePath,
	}
}

// Staged is the image waiting to be uploaded, nil when none
func (f *Fields) Staged() *attachment.StagedFile { return f.staged }

// ExistingImage is the stored reference of the entry being edited
func (f *Fields) ExistingImage() string { return f.existingImage }

// StageImage validates and previews path. Staging the same path twice is a
// no-op and an empty path drops the staged file.
func (f *Fields) StageImage(path string) error {
	path = strings.TrimSpace(path)
	if path == f.stagedFrom && (path == "" || f.staged != nil) {
		return nil
	}
	if path == "" {
		f.dropStaged()
		return nil
	}

	expanded, err := config.ExpandHome(path)
	if err != nil {
		return err
	}
	staged, err := attachment.StageFile(expanded)
	if err != nil {
		return err
	}
	f.dropStaged()
	f.staged = staged
	f.stagedFrom = path
	f.ImagePath = path
	return nil
}

// RemoveImage drops the staged file and, when editing, marks the stored
// image for removal. Nothing is sent until submit.
func (f *Fields) RemoveImage() {
	f.dropStaged()
	f.ImagePath = ""
	if f.existingImage != "" {
		f.ClearImage = true
	}
}

func (f *Fields) dropStaged() {
	f.staged.Release()
	f.staged = nil
	f.stagedFrom = ""
}

// imageRef decides the reference to send when no upload is pending
func (f *Fields) imageRef() string {
	if f.ClearImage {
		return ""
	}
	return f.existingImage
}

// input validates the text fields and builds the payload. An empty date
// means today.
func (f *Fields) input() (models.EntryInput, error) {
	var verr *models.ValidationError
	if err := models.ValidateEntryFields(f.Title, f.Content); !errors.As(err, &verr) {
		verr = &models.ValidationError{}
	}

	date := models.Today()
	if s := strings.TrimSpace(f.Date); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			verr.Add(models.FieldDate, "date must look like 2024-05-01")
		} else {
			date = d
		}
	}
	if !verr.Empty() {
		return models.EntryInput{}, verr
	}

	return models.EntryInput{
		Title:     strings.TrimSpace(f.Title),
		Content:   f.Content,
		DiaryDate: date,
		ImagePath: f.imageRef(),
	}, nil
}

func requireText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := models.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

// newForm binds a huh form to f
func newForm(f *Fields, theme *huh.Theme, editing bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&f.Title).
			Validate(requireText("title")),
		huh.NewText().
			Title("Content").
			Value(&f.Content).
			Validate(requireText("content")),
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Description("Leave empty for today").
			Value(&f.Date).
			Validate(validDate),
		huh.NewInput().
			Title("Image").
			Description("Path to a JPG, PNG or GIF up to 5 MiB (optional)").
			Value(&f.ImagePath).
			Validate(f.StageImage),
	}
	if editing && f.existingImage != "" {
		fields = append(fields,
			huh.NewConfirm().
				Title("Remove current image?").
				Value(&f.ClearImage),
		)
	}

	title := "New entry"
	if editing {
		title = "Edit entry"
	}
	return huh.NewForm(huh.NewGroup(fields...).Title(title)).
		WithTheme(theme).
		WithShowHelp(false)
}
