package summarize

import "testing"

func TestIsConventional(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"feat: add config loader", true},
		{"fix(parser): handle empty hunks", true},
		{"refactor!: drop legacy flags", true},
		{"docs: update readme\n\nlonger body", true},
		{"Add config loader", false},
		{"feature: add thing", false},
		{"feat:", false},
		{"fixed the bug", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsConventional(tt.msg); got != tt.want {
			t.Errorf("IsConventional(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestEnsureConventionalIdempotent(t *testing.T) {
	once := EnsureConventional("Add retry support for transient errors", "")
	twice := EnsureConventional(once, "")
	if once != twice {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
	if !IsConventional(once) {
		t.Errorf("result %q is not conventional", once)
	}
}

func TestEnsureConventionalClassification(t *testing.T) {
	tests := []struct {
		msg      string
		language string
		wantType string
	}{
		{"Fixed a crash when the diff is empty", "", "fix"},
		{"Add support for custom presets", "", "feat"},
		{"Update the README and comments", "", "docs"},
		{"Restructure the queue internals, rename waiters", "", "refactor"},
		{"修复了解析器的崩溃问题", "zh", "fix"},
		{"新增配置文件支持", "zh", "feat"},
		{"Miscellaneous housekeeping", "", "chore"},
	}
	for _, tt := range tests {
		got := EnsureConventional(tt.msg, tt.language)
		want := tt.wantType + ": " + tt.msg
		if got != want {
			t.Errorf("EnsureConventional(%q, %q) = %q, want %q", tt.msg, tt.language, got, want)
		}
	}
}

func TestEnsureConventionalKeepsBody(t *testing.T) {
	msg := "Add preset management\n\nPresets live under the XDG config directory."
	got := EnsureConventional(msg, "")
	if got != "feat: "+msg {
		t.Errorf("got %q", got)
	}
}
