package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Project config file names searched for, in order.
var projectConfigFiles = []string{
	".aigc.yaml",
	".aigc.yml",
}

// Load reads configuration from a specific file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := overlayFile(cfg, path); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault assembles configuration from every source in override
// order: defaults, global file, project file, environment. Missing
// files are not errors; malformed ones are.
func LoadDefault() (*Config, error) {
	cfg := Default()

	if global := globalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			if err := overlayFile(cfg, global); err != nil {
				return nil, err
			}
		}
	}

	if project, err := findProjectConfig("."); err == nil {
		if err := overlayFile(cfg, project); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv honors AIGC_CONFIG as an explicit config path before
// falling back to the default search.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("AIGC_CONFIG"); path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		applyEnv(cfg)
		return cfg, cfg.Validate()
	}
	return LoadDefault()
}

// overlayFile unmarshals a YAML file on top of cfg. Keys absent from
// the file leave the existing values untouched.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return aerrors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return aerrors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}
	return nil
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "aigc", "config.yaml")
}

// findProjectConfig searches the start directory and its parents.
func findProjectConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, filename := range projectConfigFiles {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", aerrors.ConfigError("no project config file found", nil)
}

// applyEnv overlays AIGC_* environment variables, the highest-priority
// source below command-line flags.
func applyEnv(cfg *Config) {
	if v := os.Getenv("AIGC_PROVIDER"); v != "" {
		cfg.Provider.Name = v
	}
	if v := os.Getenv("AIGC_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("AIGC_CHUNK_MODEL"); v != "" {
		cfg.Provider.ChunkModel = v
	}
	if v := os.Getenv("AIGC_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("AIGC_API_KEY_ENV"); v != "" {
		cfg.Provider.APIKeyEnv = v
	}
	if v := os.Getenv("AIGC_LANGUAGE"); v != "" {
		cfg.Generate.Language = v
	}
	if v := os.Getenv("AIGC_FORMAT"); v != "" {
		cfg.Generate.Format = v
	}
	if v := os.Getenv("AIGC_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Generate.Concurrency = n
		}
	}
	if v := os.Getenv("AIGC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Provider.Timeout = d
		}
	}
	if v := os.Getenv("AIGC_TOKEN_METHOD"); v != "" {
		cfg.Tokens.Method = v
	}
	if v := os.Getenv("AIGC_LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := os.Getenv("AIGC_NO_FILTER"); v == "1" || v == "true" {
		cfg.Filter.Enabled = false
	}
	if v := os.Getenv("AIGC_NO_CACHE"); v == "1" || v == "true" {
		cfg.Cache.Enabled = false
	}
}
