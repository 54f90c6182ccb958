package models

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestSearchQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		query SearchQuery
		want  url.Values
	}{
		{
			name:  "title",
			query: TitleQuery{Text: " trip "},
			want:  url.Values{"title": {"trip"}},
		},
		{
			name:  "content",
			query: ContentQuery{Text: "hiking"},
			want:  url.Values{"content": {"hiking"}},
		},
		{
			name:  "date range",
			query: DateRangeQuery{Start: NewDate(2024, 5, 1), End: NewDate(2024, 5, 31)},
			want:  url.Values{"startDate": {"2024-05-01"}, "endDate": {"2024-05-31"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.query.Validate(); err != nil {
				t.Fatalf("expected valid query, got %v", err)
			}
			if got := tt.query.Params(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Params() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name  string
		query SearchQuery
		field string
	}{
		{name: "blank title", query: TitleQuery{Text: "  "}, field: FieldQuery},
		{name: "blank content", query: ContentQuery{}, field: FieldQuery},
		{name: "missing start", query: DateRangeQuery{End: NewDate(2024, 1, 1)}, field: FieldStartDate},
		{name: "missing end", query: DateRangeQuery{Start: NewDate(2024, 1, 1)}, field: FieldEndDate},
		{name: "inverted", query: DateRangeQuery{Start: NewDate(2024, 2, 1), End: NewDate(2024, 1, 1)}, field: FieldEndDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			if err := tt.query.Validate(); !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field(tt.field) == "" {
				t.Errorf("expected message on %q, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestSearchModeNext(t *testing.T) {
	if SearchByTitle.Next() != SearchByContent || SearchByContent.Next() != SearchByDateRange || SearchByDateRange.Next() != SearchByTitle {
		t.Error("search modes should cycle title -> content -> date range -> title")
	}
}
