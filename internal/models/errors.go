package models

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an entry id no longer resolves
	ErrNotFound = errors.New("entry not found")
	// ErrInvalidFileType is returned when an attachment is not a JPEG, PNG or GIF image
	ErrInvalidFileType = errors.New("only JPG, PNG and GIF images are supported")
	// ErrFileTooLarge is returned when an attachment exceeds the upload limit
	ErrFileTooLarge = errors.New("image must be 5 MiB or smaller")
	// ErrIdentity is returned when no device identity could be obtained
	ErrIdentity = errors.New("device identity unavailable")
)

// Form field names used in validation errors
const (
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldDate      = "date"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldQuery     = "query"
)

// ValidationError collects field-level messages produced before any request is sent
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// Field returns the message for field, or "" if it passed
func (e *ValidationError) Field(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return strings.Join(msgs, "; ")
}

// RemoteError is any failure reported by the remote service or its transport
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when the request never got a response
	Message    string // server-provided message, if any
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match a 404 from the service
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
