package changetracker

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	redColor   = "\x1b[31m"
	greenColor = "\x1b[32m"
	resetColor = "\x1b[0m"
)

// DiffStats summarizes a save in characters added and removed.
type DiffStats struct {
	Added   int
	Removed int
}

func (s DiffStats) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// prettyDiff renders a colorized character diff between the last-saved
// content and the new content, with insertion/deletion totals.
func prettyDiff(originalCode, newCode string) (string, DiffStats) {
	if originalCode == newCode {
		return "", DiffStats{}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(originalCode, newCode, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var stats DiffStats
	var pretty strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.Added += len(d.Text)
			pretty.WriteString(greenColor)
			pretty.WriteString(d.Text)
			pretty.WriteString(resetColor)
		case diffmatchpatch.DiffDelete:
			stats.Removed += len(d.Text)
			pretty.WriteString(redColor)
			pretty.WriteString(d.Text)
			pretty.WriteString(resetColor)
		case diffmatchpatch.DiffEqual:
			pretty.WriteString(trimContext(d.Text))
		}
	}
	return pretty.String(), stats
}

// contextRunes bounds how much unchanged text is kept around each change so
// save logs stay readable for large files.
const contextRunes = 80

func trimContext(text string) string {
	runes := []rune(text)
	if len(runes) <= contextRunes*2 {
		return text
	}
	return string(runes[:contextRunes]) + " ... " + string(runes[len(runes)-contextRunes:])
}
