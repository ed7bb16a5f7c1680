// Package workspace holds the in-memory virtual file workspace: the mapping
// of filename to content plus the active-file pointer. All mutations go
// through the enumerated operations so the invariants (unique names, valid
// active pointer) hold after every call.
package workspace

import (
	"sort"
	"sync"
)

// Notifier receives synchronous change notifications from the workspace.
// FileChanged fires before the mutating call returns, so observers never see
// dirty-state that is stale relative to the workspace itself.
type Notifier interface {
	FileChanged(filename string)
	FileRemoved(filename string)
}

// Workspace is the authoritative holder of the file mapping and active file.
type Workspace struct {
	mu       sync.RWMutex
	files    map[string]string
	active   string
	notifier Notifier
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		files: make(map[string]string),
	}
}

// SetNotifier attaches the change observer. Pass nil to detach.
func (w *Workspace) SetNotifier(n Notifier) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notifier = n
}

// Files returns a snapshot copy of the current file mapping.
func (w *Workspace) Files() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snapshot := make(map[string]string, len(w.files))
	for name, content := range w.files {
		snapshot[name] = content
	}
	return snapshot
}

// Filenames returns the sorted list of filenames in the workspace.
func (w *Workspace) Filenames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return sortedKeys(w.files)
}

// Len returns the number of files in the workspace.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}

// Content returns the content of a single file and whether it exists.
func (w *Workspace) Content(filename string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	content, ok := w.files[filename]
	return content, ok
}

// ActiveFile returns the current active filename, or "" if unset.
func (w *Workspace) ActiveFile() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// SetActiveFile updates the active pointer. Returns UnknownFileError if the
// filename is not present; the workspace is unchanged in that case.
func (w *Workspace) SetActiveFile(filename string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[filename]; !ok {
		return newUnknownFileError(filename, sortedKeys(w.files))
	}
	w.active = filename
	return nil
}

// SetFile upserts a single file's content and notifies the observer.
func (w *Workspace) SetFile(filename, content string) {
	w.mu.Lock()
	w.files[filename] = content
	if w.active == "" {
		w.active = filename
	}
	notifier := w.notifier
	w.mu.Unlock()

	if notifier != nil {
		notifier.FileChanged(filename)
	}
}

// SetFiles replaces the entire mapping atomically. The active file is kept
// when its name survives the replace; otherwise it falls back to the
// lexicographically first key, or "" when the new mapping is empty. Files
// present before and absent after are reported as removed.
func (w *Workspace) SetFiles(files map[string]string) {
	w.mu.Lock()

	var removed []string
	for name := range w.files {
		if _, ok := files[name]; !ok {
			removed = append(removed, name)
		}
	}

	replacement := make(map[string]string, len(files))
	for name, content := range files {
		replacement[name] = content
	}
	w.files = replacement

	if _, ok := w.files[w.active]; !ok {
		w.active = firstKey(w.files)
	}

	changed := sortedKeys(w.files)
	notifier := w.notifier
	w.mu.Unlock()

	if notifier != nil {
		for _, name := range removed {
			notifier.FileRemoved(name)
		}
		for _, name := range changed {
			notifier.FileChanged(name)
		}
	}
}

// DeleteFile removes a file. Returns UnknownFileError when the name is not
// present. When the active file is deleted the pointer falls back to the
// lexicographically first remaining key, or "" when the workspace is empty.
func (w *Workspace) DeleteFile(filename string) error {
	w.mu.Lock()

	if _, ok := w.files[filename]; !ok {
		names := sortedKeys(w.files)
		w.mu.Unlock()
		return newUnknownFileError(filename, names)
	}

	delete(w.files, filename)
	if w.active == filename {
		w.active = firstKey(w.files)
	}
	notifier := w.notifier
	w.mu.Unlock()

	if notifier != nil {
		notifier.FileRemoved(filename)
	}
	return nil
}

// RenameFile moves content from oldName to newName. Fails with
// UnknownFileError when oldName is missing and DuplicateNameError when
// newName already exists; the workspace is untouched on failure. The active
// pointer follows the rename.
func (w *Workspace) RenameFile(oldName, newName string) error {
	w.mu.Lock()

	content, ok := w.files[oldName]
	if !ok {
		names := sortedKeys(w.files)
		w.mu.Unlock()
		return newUnknownFileError(oldName, names)
	}
	if oldName == newName {
		w.mu.Unlock()
		return nil
	}
	if _, exists := w.files[newName]; exists {
		w.mu.Unlock()
		return &DuplicateNameError{Name: newName}
	}

	delete(w.files, oldName)
	w.files[newName] = content
	if w.active == oldName {
		w.active = newName
	}
	notifier := w.notifier
	w.mu.Unlock()

	if notifier != nil {
		notifier.FileRemoved(oldName)
		notifier.FileChanged(newName)
	}
	return nil
}

func sortedKeys(files map[string]string) []string {
	keys := make([]string, 0, len(files))
	for name := range files {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func firstKey(files map[string]string) string {
	if len(files) == 0 {
		return ""
	}
	return sortedKeys(files)[0]
}
