package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/daybook/internal/models"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: stderrors.New("something went wrong"), expected: "Error: something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("entry %s not found", "42")
	if got != "Error: entry 42 not found" {
		t.Errorf("Formatf = %q", got)
	}
}

func TestNotice(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil", err: nil, contains: ""},
		{
			name:     "validation",
			err:      models.ValidateEntryFields("", "x"),
			contains: "title is required",
		},
		{
			name:     "wrapped file type",
			err:      fmt.Errorf("stage notes.txt: %w", models.ErrInvalidFileType),
			contains: "JPG, PNG and GIF",
		},
		{
			name:     "file too large",
			err:      fmt.Errorf("stage big.png: %w", models.ErrFileTooLarge),
			contains: "5 MiB",
		},
		{
			name:     "not found",
			err:      &models.RemoteError{Method: "GET", Path: "/diaries/9", StatusCode: 404},
			contains: "no longer exists",
		},
		{
			name:     "unreachable",
			err:      &models.RemoteError{Method: "GET", Path: "/diaries", Err: stderrors.New("dial tcp: refused")},
			contains: "Could not reach",
		},
		{
			name:     "server message",
			err:      &models.RemoteError{Method: "POST", Path: "/files/upload", StatusCode: 400, Message: "File is empty"},
			contains: "File is empty",
		},
		{
			name:     "server status",
			err:      &models.RemoteError{Method: "GET", Path: "/statistics", StatusCode: 500},
			contains: "(500)",
		},
		{
			name:     "rejected identity",
			err:      &models.RemoteError{Method: "GET", Path: "/diaries", StatusCode: 401},
			contains: "identity --reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Notice(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("Notice(nil) = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Notice() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(stderrors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
