package routing

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "model"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient abstracts the hosted generation endpoint so the router can be
// exercised against fakes.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// UnavailableClient always fails with a fixed error. It stands in when no
// credential is configured: the missing key is not validated up front and
// surfaces as a call failure routed through the fallback path.
type UnavailableClient struct {
	Err error
}

func (c UnavailableClient) Complete(context.Context, LLMRequest) (LLMResponse, error) {
	return LLMResponse{}, c.Err
}
