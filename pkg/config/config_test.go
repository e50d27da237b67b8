package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("built-in defaults must validate: %v", err)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
provider:
  name: deepseek
  model: deepseek-chat
generate:
  language: zh
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Name != "deepseek" || cfg.Provider.Model != "deepseek-chat" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Generate.Language != "zh" {
		t.Errorf("language = %q", cfg.Generate.Language)
	}
	// Unset keys keep their defaults.
	if cfg.Generate.Concurrency != 3 {
		t.Errorf("concurrency = %d, want default 3", cfg.Generate.Concurrency)
	}
	if cfg.Generate.Format != "conventional" {
		t.Errorf("format = %q, want default", cfg.Generate.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("missing explicit config file must error")
	}
	if !aerrors.IsType(err, aerrors.ErrConfig) {
		t.Errorf("error type = %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "provider: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml must error")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad format", "generate:\n  format: haiku\n"},
		{"bad temperature", "generate:\n  temperature: 3.5\n"},
		{"bad log level", "global:\n  log_level: loud\n"},
		{"bad token method", "tokens:\n  method: guess\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			if _, err := Load(path); err == nil {
				t.Error("invalid value must fail validation")
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
provider:
  name: openai
  model: gpt-4o
`)
	t.Setenv("AIGC_CONFIG", path)
	t.Setenv("AIGC_MODEL", "gpt-4.1")
	t.Setenv("AIGC_LANGUAGE", "ja")
	t.Setenv("AIGC_TIMEOUT", "30s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "gpt-4.1" {
		t.Errorf("model = %q, env must win over file", cfg.Provider.Model)
	}
	if cfg.Generate.Language != "ja" {
		t.Errorf("language = %q", cfg.Generate.Language)
	}
	if cfg.Provider.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Provider.Timeout)
	}
}

func TestEnvDisableSwitches(t *testing.T) {
	cfg := Default()
	t.Setenv("AIGC_NO_FILTER", "1")
	t.Setenv("AIGC_NO_CACHE", "true")
	applyEnv(cfg)

	if cfg.Filter.Enabled {
		t.Error("AIGC_NO_FILTER=1 must disable the filter")
	}
	if cfg.Cache.Enabled {
		t.Error("AIGC_NO_CACHE=true must disable the cache")
	}
}

func TestEnvIgnoresBadNumbers(t *testing.T) {
	cfg := Default()
	t.Setenv("AIGC_CONCURRENCY", "lots")
	applyEnv(cfg)
	if cfg.Generate.Concurrency != 3 {
		t.Errorf("concurrency = %d, bad env value must be ignored", cfg.Generate.Concurrency)
	}
}

func TestFindProjectConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".aigc.yaml", "provider:\n  model: m\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := findProjectConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, ".aigc.yaml") {
		t.Errorf("found %q", path)
	}
}

func TestFindProjectConfigPrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".aigc.yaml", "a: 1\n")
	nested := filepath.Join(root, "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, nested, ".aigc.yaml", "b: 2\n")

	path, err := findProjectConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(nested, ".aigc.yaml") {
		t.Errorf("found %q, want the nearest file", path)
	}
}
