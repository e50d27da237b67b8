package changes

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

// GitSource reads staged changes from a git repository.
type GitSource struct {
	// Dir is the repository directory; empty means the current one.
	Dir string
}

// Staged returns the ordered staged change records: one per file, with
// status, per-file diff text, and line counts. Binary files carry
// empty diff text. A repository with nothing staged yields an empty
// slice and no error.
func (g *GitSource) Staged(ctx context.Context) ([]ChangeRecord, error) {
	statuses, err := g.git(ctx, "diff", "--cached", "--name-status", "-M", "-C")
	if err != nil {
		return nil, err
	}
	numstat, err := g.git(ctx, "diff", "--cached", "--numstat")
	if err != nil {
		return nil, err
	}
	full, err := g.git(ctx, "diff", "--cached", "--no-color")
	if err != nil {
		return nil, err
	}

	records := parseNameStatus(statuses)
	applyNumstat(records, numstat)
	applyDiffText(records, full)
	out := make([]ChangeRecord, len(records))
	for i, r := range records {
		out[i] = *r
	}
	return out, nil
}

func (g *GitSource) git(ctx context.Context, args ...string) (string, error) {
	if g.Dir != "" {
		args = append([]string{"-C", g.Dir}, args...)
	}
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		msg := "git " + strings.Join(args, " ") + " failed"
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			msg += ": " + strings.TrimSpace(string(ee.Stderr))
		}
		return "", aerrors.ValidationError(msg, err)
	}
	return string(out), nil
}

// parseNameStatus parses `git diff --cached --name-status` output.
// Renames and copies list two paths; the destination wins.
func parseNameStatus(out string) []*ChangeRecord {
	var records []*ChangeRecord
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		status := statusFromLetter(fields[0])
		path := fields[1]
		if (status == Renamed || status == Copied) && len(fields) >= 3 {
			path = fields[2]
		}
		records = append(records, &ChangeRecord{Path: path, Status: status})
	}
	return records
}

// applyNumstat fills Additions/Deletions from `--numstat` output.
// Binary files report "-\t-" and keep zero counts.
func applyNumstat(records []*ChangeRecord, out string) {
	byPath := make(map[string]*ChangeRecord, len(records))
	for _, r := range records {
		byPath[r.Path] = r
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) < 3 {
			continue
		}
		path := fields[len(fields)-1]
		// Renames render as "old => new" or "{a => b}/c"; match on the
		// destination we recorded.
		r, ok := byPath[path]
		if !ok {
			r = matchRenamed(byPath, path)
		}
		if r == nil {
			continue
		}
		if add, err := strconv.Atoi(fields[0]); err == nil {
			r.Additions = add
		}
		if del, err := strconv.Atoi(fields[1]); err == nil {
			r.Deletions = del
		}
	}
}

func matchRenamed(byPath map[string]*ChangeRecord, numstatPath string) *ChangeRecord {
	if i := strings.Index(numstatPath, " => "); i >= 0 {
		dest := numstatPath[i+len(" => "):]
		dest = strings.ReplaceAll(strings.ReplaceAll(dest, "{", ""), "}", "")
		if r, ok := byPath[dest]; ok {
			return r
		}
		// Brace form rewrites only a path segment.
		for p, r := range byPath {
			if strings.HasSuffix(p, dest) {
				return r
			}
		}
	}
	return nil
}

// applyDiffText attaches each file's section of the combined diff.
func applyDiffText(records []*ChangeRecord, full string) {
	sections := splitFileSections(full)
	byPath := make(map[string]string, len(sections))
	for _, sec := range sections {
		byPath[sectionPath(sec)] = sec
	}
	for _, r := range records {
		if sec, ok := byPath[r.Path]; ok && !strings.Contains(sec, "Binary files ") {
			r.Diff = sec
		}
	}
}

// splitFileSections splits combined diff output on "diff --git "
// boundaries.
func splitFileSections(out string) []string {
	const prefix = "diff --git "
	var sections []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(out, "\n") {
		if strings.HasPrefix(line, prefix) && cur.Len() > 0 {
			sections = append(sections, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if strings.TrimSpace(cur.String()) != "" {
		sections = append(sections, cur.String())
	}
	return sections
}

func sectionPath(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ ") {
			p := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			if p != "/dev/null" {
				return strings.TrimPrefix(p, "b/")
			}
		}
		if strings.HasPrefix(line, "--- ") {
			p := strings.TrimSpace(strings.TrimPrefix(line, "--- "))
			if p != "/dev/null" {
				return strings.TrimPrefix(p, "a/")
			}
		}
	}
	return ""
}
