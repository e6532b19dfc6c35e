// Package llm backs the experimental chat widget with a hosted
// language-model provider.
package llm

import "context"

// Message is one turn of chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is a chat completion request.
type GenerateRequest struct {
	Model   string
	System  string
	Query   string
	History []Message
}

// Provider generates assistant replies.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// GenerateReply answers the query given the prior history.
	GenerateReply(ctx context.Context, req *GenerateRequest) (string, error)
}
