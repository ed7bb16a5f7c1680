package workspace

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// UnknownFileError reports an operation that referenced a filename not
// present in the workspace. Suggestion holds the closest existing name when
// one is reasonably close, to support "did you mean" feedback.
type UnknownFileError struct {
	Name       string
	Suggestion string
}

func (e *UnknownFileError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no file named %q in workspace (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("no file named %q in workspace", e.Name)
}

// DuplicateNameError reports a rename whose target name already exists.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a file named %q already exists", e.Name)
}

// maxSuggestionDistance caps how far a name can be from an existing file
// before we stop suggesting it.
const maxSuggestionDistance = 3

func newUnknownFileError(name string, existing []string) *UnknownFileError {
	err := &UnknownFileError{Name: name}

	best := maxSuggestionDistance + 1
	for _, candidate := range existing {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < best {
			best = d
			err.Suggestion = candidate
		}
	}
	return err
}
