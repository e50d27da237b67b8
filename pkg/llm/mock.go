package llm

import (
	"context"
	"sync"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

// MockClient is a scripted client for tests. Responses and errors are
// consumed in call order; when the script runs out the last entry
// repeats. Safe for concurrent use.
type MockClient struct {
	mu      sync.Mutex
	script  []MockReply
	calls   int
	prompts []string

	// Reply, when set, computes the reply per call and overrides the
	// script.
	Reply func(req Request) (string, error)
}

// MockReply is one scripted response or error.
type MockReply struct {
	Text string
	Err  error
}

// NewMockClient scripts a sequence of replies.
func NewMockClient(script ...MockReply) *MockClient {
	return &MockClient{script: script}
}

func (m *MockClient) Name() string { return "mock" }

// Generate returns the next scripted reply.
func (m *MockClient) Generate(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, req.Prompt)
	reply := m.Reply
	var scripted MockReply
	if reply == nil {
		if len(m.script) == 0 {
			m.mu.Unlock()
			return "", aerrors.ServerError("mock: no scripted reply", nil)
		}
		i := m.calls - 1
		if i >= len(m.script) {
			i = len(m.script) - 1
		}
		scripted = m.script[i]
	}
	m.mu.Unlock()

	if reply != nil {
		return reply(req)
	}
	return scripted.Text, scripted.Err
}

// Calls returns how many times Generate ran.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns a copy of every prompt seen, in call order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
