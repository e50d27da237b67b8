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

// OpenAIClient speaks the OpenAI chat-completions wire format. It also
// serves DeepSeek, Zhipu, Qwen and other OpenAI-compatible providers
// through BaseURL.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	name       string
}

// OpenAIOption configures the client.
type OpenAIOption func(*OpenAIClient)

// WithHTTPClient overrides the underlying HTTP client (tests, custom
// transports).
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient = hc }
}

// WithClientName overrides the log name (e.g. "deepseek").
func WithClientName(name string) OpenAIOption {
	return func(c *OpenAIClient) { c.name = name }
}

// NewOpenAIClient builds a client. baseURL is the API root, e.g.
// https://api.openai.com/v1; a trailing slash is tolerated.
func NewOpenAIClient(baseURL, apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		name:       "openai",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenAIClient) Name() string { return c.name }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate performs one chat-completion call.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", aerrors.ValidationError("encode chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", aerrors.ValidationError("build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", aerrors.Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", aerrors.TimeoutError("read chat response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("%s: HTTP %d", c.name, resp.StatusCode)
		var parsed chatResponse
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil {
			msg = fmt.Sprintf("%s: HTTP %d: %s", c.name, resp.StatusCode, parsed.Error.Message)
		}
		return "", aerrors.FromStatusCode(resp.StatusCode, msg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", aerrors.ServerError("parse chat response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", aerrors.ServerError(c.name+": response carried no choices", nil)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// SetTimeout adjusts the per-call timeout.
func (c *OpenAIClient) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}
