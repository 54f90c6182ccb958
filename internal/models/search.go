package models

import (
	"net/url"
	"strings"
)

// SearchMode discriminates the three kinds of search
type SearchMode int

const (
	SearchByTitle SearchMode = iota
	SearchByContent
	SearchByDateRange
)

var searchModeNames = []string{"title", "content", "date range"}

func (m SearchMode) String() string {
	if m < 0 || int(m) >= len(searchModeNames) {
		return "unknown"
	}
	return searchModeNames[m]
}

// Next cycles title -> content -> date range -> title
func (m SearchMode) Next() SearchMode {
	return (m + 1) % SearchMode(len(searchModeNames))
}

// SearchQuery is exactly one of TitleQuery, ContentQuery or DateRangeQuery.
// The unexported method keeps the set closed.
type SearchQuery interface {
	Mode() SearchMode
	Validate() error
	// Params returns the remote parameter set for this query alone
	Params() url.Values
	searchQuery()
}

type TitleQuery struct {
	Text string
}

type ContentQuery struct {
	Text string
}

type DateRangeQuery struct {
	Start Date
	End   Date
}

func (TitleQuery) Mode() SearchMode     { return SearchByTitle }
func (ContentQuery) Mode() SearchMode   { return SearchByContent }
func (DateRangeQuery) Mode() SearchMode { return SearchByDateRange }

func (TitleQuery) searchQuery()     {}
func (ContentQuery) searchQuery()   {}
func (DateRangeQuery) searchQuery() {}

func (q TitleQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Fields: map[string]string{FieldQuery: "enter a title to search for"}}
	}
	return nil
}

func (q ContentQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Fields: map[string]string{FieldQuery: "enter some text to search for"}}
	}
	return nil
}

func (q DateRangeQuery) Validate() error {
	verr := &ValidationError{}
	if q.Start.IsZero() {
		verr.Add(FieldStartDate, "start date is required")
	}
	if q.End.IsZero() {
		verr.Add(FieldEndDate, "end date is required")
	}
	if verr.Empty() && q.Start.After(q.End) {
		verr.Add(FieldEndDate, "end date must not be before start date")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func (q TitleQuery) Params() url.Values {
	return url.Values{"title": {strings.TrimSpace(q.Text)}}
}

func (q ContentQuery) Params() url.Values {
	return url.Values{"content": {strings.TrimSpace(q.Text)}}
}

func (q DateRangeQuery) Params() url.Values {
	return url.Values{
		"startDate": {q.Start.String()},
		"endDate":   {q.End.String()},
	}
}
