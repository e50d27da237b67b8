package llm

import (
	"fmt"
	"os"
	"strings"
	"time"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

// Settings describes the provider connection for New.
type Settings struct {
	Provider  string
	BaseURL   string
	APIKeyEnv string        // environment variable holding the key
	Timeout   time.Duration // per-call timeout; zero means DefaultTimeout
}

// Default API roots per provider. Overridable through Settings.BaseURL.
var defaultBaseURLs = map[string]string{
	"openai":   "https://api.openai.com/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"zhipu":    "https://open.bigmodel.cn/api/paas/v4",
	"alibaba":  "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"ollama":   "http://localhost:11434",
}

// New builds a client for the configured provider. Unknown providers
// with a BaseURL are treated as OpenAI-compatible; unknown providers
// without one are a configuration error.
func New(s Settings) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[provider]
	}

	switch provider {
	case "ollama", "local":
		if baseURL == "" {
			baseURL = defaultBaseURLs["ollama"]
		}
		c := NewOllamaClient(baseURL, nil)
		c.SetTimeout(s.Timeout)
		return c, nil

	case "openai", "deepseek", "zhipu", "alibaba":
		key := apiKey(s.APIKeyEnv)
		if key == "" {
			return nil, aerrors.ConfigError(
				fmt.Sprintf("provider %s requires an API key; set %s", provider, keyEnvName(s.APIKeyEnv)), nil)
		}
		c := NewOpenAIClient(baseURL, key, WithClientName(provider))
		c.SetTimeout(s.Timeout)
		return c, nil

	default:
		if baseURL == "" {
			return nil, aerrors.ConfigError(
				fmt.Sprintf("unknown provider %q and no base_url configured", s.Provider), nil)
		}
		c := NewOpenAIClient(baseURL, apiKey(s.APIKeyEnv), WithClientName(provider))
		c.SetTimeout(s.Timeout)
		return c, nil
	}
}

func apiKey(env string) string {
	return os.Getenv(keyEnvName(env))
}

func keyEnvName(env string) string {
	if env == "" {
		return "AIGC_API_KEY"
	}
	return env
}
