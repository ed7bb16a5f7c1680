package generation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
)

// Orchestrator validates prompts, calls the generation collaborator exactly
// once per invocation, and always produces a valid workspace replacement:
// provider output is normalized and backfilled, and provider failures are
// substituted with an explanatory page rather than surfaced as a dead end.
type Orchestrator struct {
	generator Generator
	busy      atomic.Bool
}

// NewOrchestrator wires the orchestrator to its collaborator.
func NewOrchestrator(generator Generator) *Orchestrator {
	return &Orchestrator{generator: generator}
}

// Busy reports whether a generation is currently in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Generate turns a prompt into the next workspace file set.
//
// The returned mapping is always a complete, renderable replacement except
// in two pre-flight cases: a blank prompt (ErrEmptyPrompt) and a request
// arriving while another is in flight (ErrBusy), both of which return a nil
// mapping and leave the workspace untouched. Provider failures return the
// fallback mapping together with the classified error so callers can show
// non-blocking feedback.
func (o *Orchestrator) Generate(ctx context.Context, prompt string) (map[string]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.busy.Store(false)

	files, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return fallbackFiles(), classify(err)
	}

	return backfill(normalizeFiles(files)), nil
}

// classify folds unknown provider errors into the transport bucket; a
// provider that wants parse semantics must return a ParseError itself.
func classify(err error) error {
	var transport *TransportError
	var parse *ParseError
	if errors.As(err, &transport) || errors.As(err, &parse) {
		return err
	}
	return &TransportError{Err: err}
}
