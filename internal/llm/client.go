// Package llm provides a provider-agnostic interface for chat completion APIs.
// The default backend posts the request body as-is to an OpenAI-compatible
// /chat/completions endpoint; SDK-backed clients exist for go-openai and Anthropic.
package llm

import (
	"context"

	"github.com/fleveque/sentiment-service/internal/prompt"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Sampling parameters of every analysis request.
const (
	AnalysisTemperature = 0.7
	AnalysisMaxTokens   = 1000
)

// Message is one turn of the conversation sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the JSON body of a chat completion call.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// NewAnalysisRequest builds the two-message sentiment conversation for a
// normalized symbol.
func NewAnalysisRequest(model string, symbol string) CompletionRequest {
	return CompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: prompt.SystemPersona},
			{Role: RoleUser, Content: prompt.Build(symbol)},
		},
		Temperature: AnalysisTemperature,
		MaxTokens:   AnalysisMaxTokens,
	}
}

// Client is the interface for completion providers.
//
// Complete returns the assistant text. Failures the caller is expected to
// recover from are reported as *StatusError (upstream answered with a
// non-200 status) or *TransportError (the call never completed); any other
// error means the upstream reply could not be understood.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	ProviderName() string
	ModelName() string
}
