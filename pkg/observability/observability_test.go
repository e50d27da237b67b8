package observability

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		leak string
	}{
		{"openai key", "using sk-abcdefghijklmnop1234", "sk-abcdefghijklmnop1234"},
		{"bearer", "header Bearer abcdef123456789000", "abcdef123456789000"},
		{"assignment", "api_key=supersecretvalue", "supersecretvalue"},
		{"token colon", "token: verysecrettoken99", "verysecrettoken99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Redact(tt.in)
			if strings.Contains(out, tt.leak) {
				t.Errorf("Redact(%q) leaked secret: %q", tt.in, out)
			}
			if !strings.Contains(out, "[REDACTED]") {
				t.Errorf("Redact(%q) = %q, expected a mask", tt.in, out)
			}
		})
	}

	plain := "summarizing 3 chunks for model gpt-4o-mini"
	if got := Redact(plain); got != plain {
		t.Errorf("Redact altered benign text: %q", got)
	}
}

func TestLoggerRedactsFieldValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "debug")

	log.Info("client ready", String("key", "sk-abcdefghijklmnop1234"))

	out := buf.String()
	if strings.Contains(out, "sk-abcdefghijklmnop1234") {
		t.Errorf("log output leaked secret: %s", out)
	}
	if !strings.Contains(out, "client ready") {
		t.Errorf("log output missing message: %s", out)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "warn")

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("level filter failed: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.ChunkProcessed()
				m.Retry()
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap["chunks_processed"] != 1000 {
		t.Errorf("chunks_processed = %d, want 1000", snap["chunks_processed"])
	}
	if snap["retries"] != 1000 {
		t.Errorf("retries = %d, want 1000", snap["retries"])
	}
}
