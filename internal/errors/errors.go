package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

// Notice turns any error into the short sentence shown in the status line.
// Remote failures stay opaque beyond a hint about their cause.
func Notice(err error) string {
	if err == nil {
		return ""
	}

	var verr *models.ValidationError
	if stderrors.As(err, &verr) {
		return verr.Error()
	}

	switch {
	case stderrors.Is(err, models.ErrInvalidFileType),
		stderrors.Is(err, models.ErrFileTooLarge):
		return unwrapSentinel(err)
	case stderrors.Is(err, models.ErrNotFound):
		return "That entry no longer exists."
	case stderrors.Is(err, models.ErrIdentity):
		return "No device identity yet. Is the diary service running?"
	}

	var rerr *models.RemoteError
	if stderrors.As(err, &rerr) {
		switch {
		case rerr.StatusCode == 0:
			return "Could not reach the diary service."
		case rerr.StatusCode == http.StatusUnauthorized, rerr.StatusCode == http.StatusForbidden:
			return "The diary service rejected this device. Try `daybook identity --reset`."
		case rerr.Message != "":
			return fmt.Sprintf("The diary service returned an error: %s", rerr.Message)
		default:
			return fmt.Sprintf("The diary service returned an error (%d).", rerr.StatusCode)
		}
	}

	return err.Error()
}

// unwrapSentinel returns the message of the taxonomy sentinel inside err
func unwrapSentinel(err error) string {
	for _, sentinel := range []error{models.ErrInvalidFileType, models.ErrFileTooLarge} {
		if stderrors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
