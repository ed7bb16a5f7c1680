package workspace

import (
	"errors"
	"testing"
)

type recordingNotifier struct {
	changed []string
	removed []string
}

func (r *recordingNotifier) FileChanged(filename string) { r.changed = append(r.changed, filename) }
func (r *recordingNotifier) FileRemoved(filename string) { r.removed = append(r.removed, filename) }

func TestSetFileCreatesAndUpdates(t *testing.T) {
	w := New()
	w.SetFile("index.html", "<html></html>")

	if content, ok := w.Content("index.html"); !ok || content != "<html></html>" {
		t.Fatalf("expected created file content, got %q (ok=%v)", content, ok)
	}
	if w.ActiveFile() != "index.html" {
		t.Errorf("first file should become active, got %q", w.ActiveFile())
	}

	w.SetFile("index.html", "<html><body></body></html>")
	if content, _ := w.Content("index.html"); content != "<html><body></body></html>" {
		t.Errorf("expected updated content, got %q", content)
	}
	if w.Len() != 1 {
		t.Errorf("upsert must not duplicate names, have %d files", w.Len())
	}
}

func TestSetActiveFileUnknown(t *testing.T) {
	w := New()
	w.SetFile("index.html", "x")

	err := w.SetActiveFile("styles.css")
	var unknown *UnknownFileError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFileError, got %v", err)
	}
	if w.ActiveFile() != "index.html" {
		t.Errorf("failed SetActiveFile must not move the pointer, got %q", w.ActiveFile())
	}
}

func TestUnknownFileSuggestion(t *testing.T) {
	w := New()
	w.SetFile("styles.css", "body{}")

	err := w.SetActiveFile("style.css")
	var unknown *UnknownFileError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFileError, got %v", err)
	}
	if unknown.Suggestion != "styles.css" {
		t.Errorf("expected close-name suggestion styles.css, got %q", unknown.Suggestion)
	}
}

func TestDeleteFileReassignsActive(t *testing.T) {
	w := New()
	w.SetFiles(map[string]string{
		"index.html": "a",
		"about.html": "b",
		"styles.css": "c",
	})
	if err := w.SetActiveFile("index.html"); err != nil {
		t.Fatal(err)
	}

	if err := w.DeleteFile("index.html"); err != nil {
		t.Fatal(err)
	}
	// Deterministic fallback: lexicographically first remaining key.
	if w.ActiveFile() != "about.html" {
		t.Errorf("expected fallback to about.html, got %q", w.ActiveFile())
	}

	if err := w.DeleteFile("about.html"); err != nil {
		t.Fatal(err)
	}
	if err := w.DeleteFile("styles.css"); err != nil {
		t.Fatal(err)
	}
	if w.ActiveFile() != "" {
		t.Errorf("empty workspace must clear the active pointer, got %q", w.ActiveFile())
	}

	err := w.DeleteFile("styles.css")
	var unknown *UnknownFileError
	if !errors.As(err, &unknown) {
		t.Errorf("deleting a missing file should report UnknownFileError, got %v", err)
	}
}

func TestSetFilesKeepsActiveWhenPresent(t *testing.T) {
	w := Seed()
	w.SetFiles(map[string]string{
		"index.html": "new",
		"app.js":     "code",
	})
	if w.ActiveFile() != "index.html" {
		t.Errorf("active file surviving a bulk replace must be kept, got %q", w.ActiveFile())
	}

	w.SetFiles(map[string]string{
		"main.html": "x",
		"extra.css": "y",
	})
	if w.ActiveFile() != "extra.css" {
		t.Errorf("expected lexicographically first key after active removed, got %q", w.ActiveFile())
	}

	w.SetFiles(map[string]string{})
	if w.ActiveFile() != "" {
		t.Errorf("empty replace must clear active, got %q", w.ActiveFile())
	}
}

func TestRenameFile(t *testing.T) {
	w := New()
	w.SetFiles(map[string]string{
		"index.html": "page",
		"styles.css": "css",
	})
	if err := w.SetActiveFile("styles.css"); err != nil {
		t.Fatal(err)
	}

	if err := w.RenameFile("styles.css", "style.css"); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Content("styles.css"); ok {
		t.Error("old name should be gone after rename")
	}
	if content, ok := w.Content("style.css"); !ok || content != "css" {
		t.Errorf("content should move with the rename, got %q (ok=%v)", content, ok)
	}
	if w.ActiveFile() != "style.css" {
		t.Errorf("active pointer should follow rename, got %q", w.ActiveFile())
	}

	// Collision leaves everything untouched.
	err := w.RenameFile("style.css", "index.html")
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}
	if content, _ := w.Content("index.html"); content != "page" {
		t.Errorf("failed rename must not clobber the target, got %q", content)
	}
	if _, ok := w.Content("style.css"); !ok {
		t.Error("failed rename must keep the source file")
	}

	// Renaming a missing file reports UnknownFileError.
	var unknown *UnknownFileError
	if err := w.RenameFile("nope.html", "x.html"); !errors.As(err, &unknown) {
		t.Errorf("expected UnknownFileError, got %v", err)
	}

	// Rename to itself is a no-op, not a duplicate.
	if err := w.RenameFile("index.html", "index.html"); err != nil {
		t.Errorf("self-rename should succeed, got %v", err)
	}
}

func TestNotifierFiresBeforeReturn(t *testing.T) {
	w := New()
	n := &recordingNotifier{}
	w.SetNotifier(n)

	w.SetFile("index.html", "a")
	if len(n.changed) != 1 || n.changed[0] != "index.html" {
		t.Fatalf("SetFile must notify synchronously, got %v", n.changed)
	}

	if err := w.RenameFile("index.html", "home.html"); err != nil {
		t.Fatal(err)
	}
	if len(n.removed) != 1 || n.removed[0] != "index.html" {
		t.Errorf("rename should report the old name as removed, got %v", n.removed)
	}
	if n.changed[len(n.changed)-1] != "home.html" {
		t.Errorf("rename should report the new name as changed, got %v", n.changed)
	}

	if err := w.DeleteFile("home.html"); err != nil {
		t.Fatal(err)
	}
	if n.removed[len(n.removed)-1] != "home.html" {
		t.Errorf("delete should notify removal, got %v", n.removed)
	}
}

func TestSetFilesNotifiesRemovals(t *testing.T) {
	w := New()
	w.SetFiles(map[string]string{"a.html": "1", "b.css": "2"})

	n := &recordingNotifier{}
	w.SetNotifier(n)
	w.SetFiles(map[string]string{"a.html": "1", "c.js": "3"})

	if len(n.removed) != 1 || n.removed[0] != "b.css" {
		t.Errorf("bulk replace should report dropped files, got %v", n.removed)
	}
	if len(n.changed) != 2 {
		t.Errorf("bulk replace should report all surviving files as changed, got %v", n.changed)
	}
}

func TestSeedWorkspace(t *testing.T) {
	w := Seed()
	if w.Len() != 3 {
		t.Fatalf("seed should hold 3 files, got %d", w.Len())
	}
	if w.ActiveFile() != "index.html" {
		t.Errorf("seed active file should be index.html, got %q", w.ActiveFile())
	}
	if content, _ := w.Content("index.html"); content == "" {
		t.Error("seed index.html must not be blank")
	}
}

func TestFilesReturnsSnapshot(t *testing.T) {
	w := New()
	w.SetFile("index.html", "original")

	snapshot := w.Files()
	snapshot["index.html"] = "mutated"

	if content, _ := w.Content("index.html"); content != "original" {
		t.Error("mutating a snapshot must not affect the workspace")
	}
}
