package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func readEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	entries := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(content)
	}
	return entries
}

func TestZipRoundTrip(t *testing.T) {
	files := map[string]string{
		"index.html": "<html></html>",
		"styles.css": "body{}",
		"script.js":  "  ", // blank, skipped
	}

	data, err := Zip(files, nil)
	if err != nil {
		t.Fatal(err)
	}

	entries := readEntries(t, data)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (blank skipped), got %d", len(entries))
	}
	if entries["index.html"] != "<html></html>" {
		t.Errorf("unexpected index.html content: %q", entries["index.html"])
	}
}

func TestZipAppliesIgnoreRules(t *testing.T) {
	files := map[string]string{
		"index.html": "<html></html>",
		"notes.txt":  "internal scratch notes",
		"draft.bak":  "old version",
	}
	rules := CompileIgnoreRules([]string{"*.txt", "*.bak", "   "})

	data, err := Zip(files, rules)
	if err != nil {
		t.Fatal(err)
	}

	entries := readEntries(t, data)
	if len(entries) != 1 {
		t.Fatalf("ignore rules should leave only index.html, got %v", entries)
	}
}

func TestZipEmptyInputFails(t *testing.T) {
	if _, err := Zip(map[string]string{}, nil); err == nil {
		t.Error("archiving nothing should fail")
	}
	if _, err := Zip(map[string]string{"a.txt": "   "}, nil); err == nil {
		t.Error("archiving only blank files should fail")
	}
}

func TestZipIsDeterministic(t *testing.T) {
	files := map[string]string{
		"b.css":  "b{}",
		"a.html": "<p></p>",
		"c.js":   "c()",
	}
	first, err := Zip(files, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Zip(files, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical inputs should produce identical archives")
	}
}

func TestCompileIgnoreRulesEmpty(t *testing.T) {
	if CompileIgnoreRules(nil) != nil {
		t.Error("no patterns should compile to nil")
	}
	if CompileIgnoreRules([]string{"", "  "}) != nil {
		t.Error("blank-only patterns should compile to nil")
	}
}
