package history

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestAddAndRecall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s := Load(path)

	s.Add("a todo app")
	s.Add("a chess game")

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Prompt != "a chess game" {
		t.Errorf("most recent prompt should be first, got %q", entries[0].Prompt)
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Error("entries should carry unique ids")
	}
}

func TestHistoryPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s := Load(path)
	s.Add("remember me")

	reloaded := Load(path)
	entries := reloaded.Entries()
	if len(entries) != 1 || entries[0].Prompt != "remember me" {
		t.Fatalf("history should survive a reload, got %+v", entries)
	}
}

func TestHistoryCapsAtMaxEntries(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "history.json"))
	for i := 0; i < MaxEntries+5; i++ {
		s.Add(fmt.Sprintf("prompt %d", i))
	}

	entries := s.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("expected cap at %d, got %d", MaxEntries, len(entries))
	}
	if entries[0].Prompt != fmt.Sprintf("prompt %d", MaxEntries+4) {
		t.Errorf("newest prompt should survive the cap, got %q", entries[0].Prompt)
	}
}

func TestHistorySkipsBlankAndRepeat(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "history.json"))
	s.Add("")
	s.Add("same")
	s.Add("same")

	if len(s.Entries()) != 1 {
		t.Errorf("blank and repeated prompts should not add entries, got %+v", s.Entries())
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope", "history.json"))
	if len(s.Entries()) != 0 {
		t.Error("missing file should start an empty history")
	}
	// And adding afterwards creates the directory.
	s.Add("first")
	if len(s.Entries()) != 1 {
		t.Error("add after missing-file load should work")
	}
}
