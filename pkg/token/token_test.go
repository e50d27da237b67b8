package token

import (
	"strings"
	"testing"
)

func TestEstimateEmpty(t *testing.T) {
	e := NewEstimator()
	if got := e.Estimate(""); got != 0 {
		t.Errorf("Estimate(\"\") = %d, want 0", got)
	}
}

func TestEstimateMonotonic(t *testing.T) {
	e := NewEstimator()
	prev := 0
	text := ""
	for i := 0; i < 50; i++ {
		text += "some diff content line that keeps growing\n"
		got := e.Estimate(text)
		if got < prev {
			t.Fatalf("estimate decreased: len %d -> %d tokens (prev %d)", len(text), got, prev)
		}
		prev = got
	}
}

func TestEstimateMultibyte(t *testing.T) {
	e := NewEstimator()
	// 30 CJK runes, 90 bytes: bytes/3 and runes/2 disagree, the
	// larger must win.
	text := strings.Repeat("修", 30)
	if got := e.Estimate(text); got != 30 {
		t.Errorf("Estimate(cjk) = %d, want 30", got)
	}
}

func TestEstimateASCII(t *testing.T) {
	e := NewEstimator()
	text := strings.Repeat("a", 300)
	if got := e.Estimate(text); got != 100 {
		t.Errorf("Estimate(ascii 300) = %d, want 100", got)
	}
}

func TestModelLimitLookup(t *testing.T) {
	e := NewEstimator()
	tests := []struct {
		model string
		want  int
	}{
		{"gpt-4o", 128000},
		{"gpt-4o-mini", 128000},
		{"gpt-4", 8192},
		{"GPT-4-Turbo-Preview", 128000},
		{"claude-3-5-sonnet-20241022", 200000},
		{"deepseek-chat", 64000},
		{"llama3:8b", 8192},
		{"totally-unknown-model", DefaultModelLimit},
		{"", DefaultModelLimit},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := e.ModelLimit(tt.model); got != tt.want {
				t.Errorf("ModelLimit(%q) = %d, want %d", tt.model, got, tt.want)
			}
		})
	}
}

func TestEffectiveLimit(t *testing.T) {
	e := NewEstimator()
	if got := e.EffectiveLimit("gpt-4"); got != 8192-DefaultSafetyMargin {
		t.Errorf("EffectiveLimit(gpt-4) = %d", got)
	}

	// A margin larger than the window must not collapse the budget to zero.
	tight := NewEstimator(WithSafetyMargin(100000), WithLimits(Limits{{"tiny", 1000}}))
	if got := tight.EffectiveLimit("tiny-model"); got != minEffectiveLimit {
		t.Errorf("EffectiveLimit with oversized margin = %d, want %d", got, minEffectiveLimit)
	}
}

func TestNeedsSplit(t *testing.T) {
	e := NewEstimator(WithLimits(Limits{{"small", 1000}}), WithSafetyMargin(500))

	short := strings.Repeat("x", 300) // ~100 tokens
	if e.NeedsSplit(short, "small-model") {
		t.Error("short text should not need splitting")
	}

	long := strings.Repeat("x", 3000) // ~1000 tokens > 500 effective
	if !e.NeedsSplit(long, "small-model") {
		t.Error("long text should need splitting")
	}
}

func TestCustomLimits(t *testing.T) {
	e := NewEstimator(WithLimits(Limits{{"house-model", 42000}}))
	if got := e.ModelLimit("house-model-v2"); got != 42000 {
		t.Errorf("custom limit lookup = %d, want 42000", got)
	}
	if got := e.ModelLimit("gpt-4o"); got != DefaultModelLimit {
		t.Errorf("replaced table should not know gpt-4o, got %d", got)
	}
}

func TestWithMethodFallback(t *testing.T) {
	e := NewEstimator(WithMethod(Method("bogus")))
	if e.Method() != MethodSimple {
		t.Errorf("unknown method should fall back to simple, got %s", e.Method())
	}
}
