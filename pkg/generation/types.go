// Package generation bridges a free-text prompt to a bulk workspace
// replacement through an external model provider. Whatever the provider
// does, the orchestrator always hands back a renderable file mapping.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// Generator is the external generation collaborator: it turns a prompt into
// a filename-to-content mapping. Implementations are expected to fail with
// TransportError or ParseError so the orchestrator can classify the failure.
type Generator interface {
	Generate(ctx context.Context, prompt string) (map[string]string, error)
}

// ErrEmptyPrompt is returned before any network call when the prompt is
// blank or whitespace-only.
var ErrEmptyPrompt = errors.New("prompt is empty")

// ErrBusy is returned when a generation is already in flight.
var ErrBusy = errors.New("a generation is already in progress")

// TransportError wraps network, timeout, and non-2xx failures reaching the
// provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps a response that arrived but could not be decoded into the
// expected file mapping.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generation response could not be parsed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
