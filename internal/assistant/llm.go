package assistant

import "context"

// Provider is the interface for any LLM backend.
type Provider interface {
	Chat(ctx context.Context, req *Request) (*Reply, error)
	Model() string
}

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single plain-text turn in the conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is the input to the LLM provider.
type Request struct {
	MaxTokens int
	Messages  []Message
}

// Reply is the output from the LLM provider.
type Reply struct {
	Text  string
	Model string
	Usage Usage
}

// Usage reports token consumption for a single call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
