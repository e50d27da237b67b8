package split

import (
	"strings"
	"testing"

	"github.com/want2sleeep/AIGitCommit-sub000/pkg/token"
)

// lineCountEstimator makes token math exact in tests: one token per
// line, so budgets translate directly into line counts.
type lineCountEstimator struct{}

func (lineCountEstimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + btoi(!strings.HasSuffix(text, "\n"))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func fileDiff(path string, hunks ...string) string {
	var b strings.Builder
	b.WriteString("diff --git a/" + path + " b/" + path + "\n")
	b.WriteString("index 0000000..1111111 100644\n")
	b.WriteString("--- a/" + path + "\n")
	b.WriteString("+++ b/" + path + "\n")
	for _, h := range hunks {
		b.WriteString(h)
	}
	return b.String()
}

func hunk(start, n int) string {
	var b strings.Builder
	b.WriteString("@@ -1,1 +1,1 @@\n")
	for i := 0; i < n; i++ {
		b.WriteString("+added line\n")
	}
	return b.String()
}

func TestSplitEmptyDiff(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	if chunks := s.Split("", 100); chunks != nil {
		t.Errorf("empty diff produced %d chunks", len(chunks))
	}
	if chunks := s.Split("   \n  ", 100); chunks != nil {
		t.Errorf("blank diff produced %d chunks", len(chunks))
	}
}

func TestSplitByFilesOnly(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	diff := fileDiff("a.go", hunk(1, 3)) + fileDiff("b.go", hunk(1, 4))

	chunks := s.Split(diff, 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].FilePath != "a.go" || chunks[1].FilePath != "b.go" {
		t.Errorf("paths = %q, %q", chunks[0].FilePath, chunks[1].FilePath)
	}
	for i, c := range chunks {
		if c.Level != LevelFile {
			t.Errorf("chunk %d level = %s, want file", i, c.Level)
		}
		if c.ChunkIndex != i {
			t.Errorf("chunk %d index = %d", i, c.ChunkIndex)
		}
	}
}

func TestSplitEscalatesToHunks(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	// File is 4 header lines + two 6-line hunks = 16 lines; budget 12
	// forces hunk-level, and each hunk (10 and 6 lines) fits.
	diff := fileDiff("big.go", hunk(1, 5), hunk(10, 5))

	chunks := s.Split(diff, 12)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	for _, c := range chunks {
		if c.Level != LevelHunk {
			t.Errorf("level = %s, want hunk", c.Level)
		}
		if c.FilePath != "big.go" {
			t.Errorf("path = %q", c.FilePath)
		}
	}
	// Header must stay attached to the first hunk chunk.
	if !strings.HasPrefix(chunks[0].Content, "diff --git a/big.go") {
		t.Error("first hunk chunk lost the file header")
	}
	if !strings.HasPrefix(chunks[1].Content, "@@ ") {
		t.Errorf("second hunk chunk should start at hunk header, got %q", firstLine(chunks[1].Content))
	}
}

func TestSplitEscalatesToLines(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	// One 30-line hunk against a 10-line budget forces line groups.
	diff := fileDiff("huge.go", hunk(1, 29))

	chunks := s.Split(diff, 10)
	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want at least 3", len(chunks))
	}
	est := lineCountEstimator{}
	for i, c := range chunks {
		if c.Level != LevelLine {
			t.Errorf("chunk %d level = %s, want line", i, c.Level)
		}
		if got := est.Estimate(c.Content); got > 10 {
			t.Errorf("chunk %d is %d tokens, over the 10 budget", i, got)
		}
	}
}

func TestSplitOversizedProducesMultipleBoundedChunks(t *testing.T) {
	est := token.NewEstimator()
	s := New(est, nil)

	var hunks []string
	for i := 0; i < 8; i++ {
		hunks = append(hunks, hunk(i*10, 40))
	}
	diff := fileDiff("a.go", hunks[:4]...) + fileDiff("b.go", hunks[4:]...)

	budget := 300
	if est.Estimate(diff) <= budget {
		t.Fatal("test diff should exceed the budget")
	}

	chunks := s.Split(diff, budget)
	if len(chunks) < 2 {
		t.Fatalf("oversized diff produced %d chunks, want >= 2", len(chunks))
	}
	for i, c := range chunks {
		// Allow the documented exception only for single lines.
		if est.Estimate(c.Content) > budget && strings.Count(strings.TrimRight(c.Content, "\n"), "\n") > 0 {
			t.Errorf("chunk %d over budget and divisible", i)
		}
	}
}

func TestSplitRejoinsInOriginalOrder(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	diff := fileDiff("a.go", hunk(1, 20)) + fileDiff("b.go", hunk(1, 3)) + fileDiff("c.go", hunk(1, 25))

	chunks := s.Split(diff, 8)

	var rejoined strings.Builder
	last := -1
	for _, c := range chunks {
		if c.ChunkIndex != last+1 {
			t.Fatalf("chunk indexes not consecutive: %d after %d", c.ChunkIndex, last)
		}
		last = c.ChunkIndex
		rejoined.WriteString(c.Content)
	}
	if rejoined.String() != diff {
		t.Error("concatenating chunks by index did not reconstruct the diff")
	}
}

func TestSplitIndivisibleLine(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	// Minified single-line content: with a character estimator this
	// line alone exceeds any small budget; with the line estimator we
	// simulate by budget 0 semantics instead. Use the real estimator.
	est := token.NewEstimator()
	s = New(est, nil)

	long := strings.Repeat("x", 3000)
	diff := fileDiff("min.js", "@@ -1,1 +1,1 @@\n+"+long+"\n")

	chunks := s.Split(diff, 50)
	found := false
	for _, c := range chunks {
		if strings.Contains(c.Content, long) {
			found = true
			if c.Level != LevelLine {
				t.Errorf("oversized line level = %s, want line", c.Level)
			}
		}
	}
	if !found {
		t.Error("indivisible oversized line was dropped")
	}
}

func TestSplitPlainTextInput(t *testing.T) {
	s := New(lineCountEstimator{}, nil)
	chunks := s.Split("just some text\nwith two lines\n", 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].FilePath != "" {
		t.Errorf("plain text path = %q, want empty", chunks[0].FilePath)
	}
}

func TestParseFilePathDeletion(t *testing.T) {
	section := "diff --git a/gone.go b/gone.go\n" +
		"deleted file mode 100644\n" +
		"--- a/gone.go\n" +
		"+++ /dev/null\n" +
		"@@ -1,2 +0,0 @@\n-x\n-y\n"
	if got := parseFilePath(section); got != "gone.go" {
		t.Errorf("parseFilePath = %q, want gone.go", got)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
