package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// EntryID is the opaque identifier the service assigns to an entry.
// The service sends numbers; strings are accepted too.
type EntryID string

func (id *EntryID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EntryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = EntryID(n.String())
	return nil
}

func (id EntryID) String() string { return string(id) }

// DiaryEntry is a single journal record as returned by the service
type DiaryEntry struct {
	ID        EntryID   `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	DiaryDate Date      `json:"diaryDate"` // the day the entry is about, chosen by the user
	ImagePath string    `json:"imagePath"` // stored attachment reference, empty when none
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

func (e DiaryEntry) HasImage() bool { return e.ImagePath != "" }

// Input returns the full-replacement payload for e
func (e DiaryEntry) Input() EntryInput {
	return EntryInput{
		Title:     e.Title,
		Content:   e.Content,
		DiaryDate: e.DiaryDate,
		ImagePath: e.ImagePath,
	}
}

// DiaryEntrySummary is a row of a listing or search result
type DiaryEntrySummary struct {
	ID        EntryID   `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	DiaryDate Date      `json:"diaryDate"`
	ImagePath string    `json:"imagePath"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Preview returns the first max runes of the content on a single line
func (s DiaryEntrySummary) Preview(max int) string {
	flat := strings.Join(strings.Fields(s.Content), " ")
	if utf8.RuneCountInString(flat) <= max {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:max]) + "…"
}

// EntryInput is the create/update payload. ImagePath is always sent so an
// explicit clear reaches the service as an empty string.
type EntryInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	DiaryDate Date   `json:"diaryDate"`
	ImagePath string `json:"imagePath"`
}

// Validate checks the non-empty title and content invariant
func (in EntryInput) Validate() error {
	return ValidateEntryFields(in.Title, in.Content)
}

// ValidateEntryFields reports every empty field at once so a form can show
// all messages together.
func ValidateEntryFields(title, content string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(title) == "" {
		verr.Add(FieldTitle, "title is required")
	}
	if strings.TrimSpace(content) == "" {
		verr.Add(FieldContent, "content is required")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}
