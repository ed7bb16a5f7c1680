package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeGenerator struct {
	mu      sync.Mutex
	files   map[string]string
	err     error
	delay   time.Duration
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (map[string]string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.files, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestGenerateRejectsBlankPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	orch := NewOrchestrator(gen)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		files, err := orch.Generate(context.Background(), prompt)
		if !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("prompt %q: expected ErrEmptyPrompt, got %v", prompt, err)
		}
		if files != nil {
			t.Errorf("prompt %q: blank prompt must not produce files", prompt)
		}
	}
	if gen.callCount() != 0 {
		t.Error("blank prompt must not reach the collaborator")
	}
}

func TestGenerateBackfillsMissingFiles(t *testing.T) {
	gen := &fakeGenerator{files: map[string]string{
		"index.html": "<html><body>app</body></html>",
		"styles.css": "body{margin:0}",
		// script.js entirely missing
	}}
	orch := NewOrchestrator(gen)

	files, err := orch.Generate(context.Background(), "a calculator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(files["script.js"]) == "" {
		t.Error("missing script.js must be backfilled with the default skeleton")
	}
	if files["index.html"] != "<html><body>app</body></html>" {
		t.Error("provided files must pass through untouched")
	}
}

func TestGenerateBackfillsBlankFiles(t *testing.T) {
	gen := &fakeGenerator{files: map[string]string{
		"index.html": "   \n",
		"styles.css": "body{}",
		"script.js":  "run()",
	}}
	orch := NewOrchestrator(gen)

	files, err := orch.Generate(context.Background(), "a page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(files["index.html"]) == "" {
		t.Error("blank-after-trim index.html must be backfilled")
	}
}

func TestGenerateNormalizesAliases(t *testing.T) {
	gen := &fakeGenerator{files: map[string]string{
		"index.html": "<html></html>",
		"style.css":  "body{color:red}",
		"main.js":    "boot()",
	}}
	orch := NewOrchestrator(gen)

	files, err := orch.Generate(context.Background(), "something")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if files["styles.css"] != "body{color:red}" {
		t.Errorf("style.css should be normalized to styles.css, got %q", files["styles.css"])
	}
	if files["script.js"] != "boot()" {
		t.Errorf("main.js should be normalized to script.js, got %q", files["script.js"])
	}
	if _, ok := files["style.css"]; ok {
		t.Error("alias key must not survive normalization")
	}
	if _, ok := files["main.js"]; ok {
		t.Error("alias key must not survive normalization")
	}
}

func TestGenerateFailureStillYieldsRenderableWorkspace(t *testing.T) {
	gen := &fakeGenerator{err: &TransportError{Err: errors.New("connection refused")}}
	orch := NewOrchestrator(gen)

	files, err := orch.Generate(context.Background(), "a site")

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	for _, name := range []string{"index.html", "styles.css", "script.js"} {
		if strings.TrimSpace(files[name]) == "" {
			t.Errorf("fallback workspace missing renderable %s", name)
		}
	}
	if !strings.Contains(files["index.html"], "unavailable") {
		t.Error("fallback page should explain the failure to the user")
	}
}

func TestGenerateClassifiesUnknownErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("something odd")}
	orch := NewOrchestrator(gen)

	_, err := orch.Generate(context.Background(), "a site")
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("untyped provider errors should classify as transport, got %v", err)
	}
}

func TestGenerateParseErrorPreserved(t *testing.T) {
	gen := &fakeGenerator{err: &ParseError{Err: errors.New("bad JSON")}}
	orch := NewOrchestrator(gen)

	files, err := orch.Generate(context.Background(), "a site")
	var parse *ParseError
	if !errors.As(err, &parse) {
		t.Fatalf("expected ParseError to pass through, got %v", err)
	}
	if len(files) == 0 {
		t.Error("parse failure must still produce the fallback workspace")
	}
}

func TestGenerateBusyGuard(t *testing.T) {
	gen := &fakeGenerator{
		files: map[string]string{"index.html": "<html></html>"},
		delay: 100 * time.Millisecond,
	}
	orch := NewOrchestrator(gen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := orch.Generate(context.Background(), "slow one"); err != nil {
			t.Errorf("first generation failed: %v", err)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if !orch.Busy() {
		t.Error("Busy should report true while a call is in flight")
	}
	if _, err := orch.Generate(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent generation should fail with ErrBusy, got %v", err)
	}

	<-done
	if orch.Busy() {
		t.Error("Busy should clear after completion")
	}
	if gen.callCount() != 1 {
		t.Errorf("collaborator must be called exactly once, got %d", gen.callCount())
	}
}
