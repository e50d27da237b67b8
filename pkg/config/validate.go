package config

import (
	"fmt"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

var validFormats = map[string]bool{
	"plain":        true,
	"conventional": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validTokenMethods = map[string]bool{
	"simple":   true,
	"tiktoken": true,
}

// Validate checks the configuration for values that would make a run
// fail in confusing ways later.
func (c *Config) Validate() error {
	if c.Provider.Name == "" {
		return aerrors.ValidationError("provider.name must not be empty", nil)
	}
	if c.Provider.Model == "" {
		return aerrors.ValidationError("provider.model must not be empty", nil)
	}
	if !validFormats[c.Generate.Format] {
		return aerrors.ValidationError(
			fmt.Sprintf("generate.format must be plain or conventional, got %q", c.Generate.Format), nil)
	}
	if c.Generate.Temperature < 0 || c.Generate.Temperature > 2 {
		return aerrors.ValidationError(
			fmt.Sprintf("generate.temperature must be in [0, 2], got %g", c.Generate.Temperature), nil)
	}
	if c.Generate.Concurrency < 1 {
		return aerrors.ValidationError(
			fmt.Sprintf("generate.concurrency must be at least 1, got %d", c.Generate.Concurrency), nil)
	}
	if !validTokenMethods[c.Tokens.Method] {
		return aerrors.ValidationError(
			fmt.Sprintf("tokens.method must be simple or tiktoken, got %q", c.Tokens.Method), nil)
	}
	if !validLogLevels[c.Global.LogLevel] {
		return aerrors.ValidationError(
			fmt.Sprintf("global.log_level must be one of debug, info, warn, error, got %q", c.Global.LogLevel), nil)
	}
	return nil
}
