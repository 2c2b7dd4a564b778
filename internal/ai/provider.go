// Package ai turns free text into habit data with a hosted language model.
package ai

import (
	"context"
	"errors"
)

// ErrBadResponse is returned when the model answers with something that
// cannot be used.
var ErrBadResponse = errors.New("unusable model response")

// Provider sends a single prompt and returns the model's text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
