package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"

	"github.com/julianstephens/dailypunch/internal/logger"
)

var (
	ErrNotFound      = stderrors.New("not found")
	ErrInvalidInput  = stderrors.New("invalid input")
	ErrUnauthorized  = stderrors.New("unauthorized")
	ErrConflict      = stderrors.New("conflict")
	ErrNotConfigured = stderrors.New("not configured")
)

// NotFound wraps ErrNotFound with a description of what was missing.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Invalid wraps ErrInvalidInput with a description of the problem.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotConfigured wraps ErrNotConfigured naming the missing integration.
func NotConfigured(what string) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, what)
}

// Code maps an error to the short code used in API error envelopes.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound):
		return "not_found"
	case stderrors.Is(err, ErrInvalidInput):
		return "bad_request"
	case stderrors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case stderrors.Is(err, ErrConflict):
		return "conflict"
	case stderrors.Is(err, ErrNotConfigured):
		return "not_configured"
	default:
		return "internal"
	}
}

// StatusCode maps an error to an HTTP status.
func StatusCode(err error) int {
	switch Code(err) {
	case "":
		return http.StatusOK
	case "not_found":
		return http.StatusNotFound
	case "bad_request":
		return http.StatusBadRequest
	case "unauthorized":
		return http.StatusUnauthorized
	case "conflict":
		return http.StatusConflict
	case "not_configured":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

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
