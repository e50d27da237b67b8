package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

// OllamaClient calls a local Ollama server's /api/generate endpoint.
type OllamaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOllamaClient builds a client. baseURL is the API root, e.g.
// http://localhost:11434. If hc is nil a default client with the
// package timeout is used.
func NewOllamaClient(baseURL string, hc *http.Client) *OllamaClient {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &OllamaClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: hc,
	}
}

func (c *OllamaClient) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate performs one non-streaming generation call.
func (c *OllamaClient) Generate(ctx context.Context, req Request) (string, error) {
	opts := map[string]any{}
	if req.Temperature > 0 {
		opts["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}

	body, err := json.Marshal(ollamaRequest{
		Model:   req.Model,
		System:  req.System,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: opts,
	})
	if err != nil {
		return "", aerrors.ValidationError("encode generate request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", aerrors.ValidationError("build generate request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", aerrors.Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", aerrors.TimeoutError("read generate response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("ollama: HTTP %d", resp.StatusCode)
		var parsed ollamaResponse
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
			msg = fmt.Sprintf("ollama: HTTP %d: %s", resp.StatusCode, parsed.Error)
		}
		return "", aerrors.FromStatusCode(resp.StatusCode, msg)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", aerrors.ServerError("parse generate response", err)
	}
	return strings.TrimSpace(parsed.Response), nil
}

// SetTimeout adjusts the per-call timeout.
func (c *OllamaClient) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}
