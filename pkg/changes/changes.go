// Package changes models staged source-file changes and supplies them
// from a git repository.
package changes

import "strings"

// Status is the staged state of one file.
type Status string

const (
	Added    Status = "Added"
	Modified Status = "Modified"
	Deleted  Status = "Deleted"
	Renamed  Status = "Renamed"
	Copied   Status = "Copied"
)

// ChangeRecord is one staged file change. Immutable input to the
// pipeline; the core consumes it read-only.
type ChangeRecord struct {
	Path      string
	Status    Status
	Diff      string
	Additions int
	Deletions int
}

// CombinedDiff concatenates the per-file diff text in record order.
func CombinedDiff(records []ChangeRecord) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.Diff)
		if r.Diff != "" && !strings.HasSuffix(r.Diff, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Paths returns the file paths in record order.
func Paths(records []ChangeRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

// statusFromLetter maps git name-status letters. Rename and copy
// letters carry a similarity score suffix (R100, C75).
func statusFromLetter(letter string) Status {
	switch {
	case letter == "A":
		return Added
	case letter == "D":
		return Deleted
	case strings.HasPrefix(letter, "R"):
		return Renamed
	case strings.HasPrefix(letter, "C"):
		return Copied
	default:
		return Modified
	}
}
