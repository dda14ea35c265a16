// Package llm provides text-generation clients used by the LLM cleaner.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Request is a single text-generation call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer generates text for a prompt under a system instruction.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
	Stats() *LatencyStats
	Close()
}

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// New returns the client for a provider name.
func New(provider, apiKey, model string) (Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key is required", provider)
	}
	switch strings.ToLower(provider) {
	case ProviderAnthropic, "claude":
		return NewClaudeClient(apiKey, model), nil
	case ProviderGemini, "google":
		return NewGeminiClient(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

var codeBlockRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// StripCodeBlock removes a Markdown code fence wrapped around a response.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
