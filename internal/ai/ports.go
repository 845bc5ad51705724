package ai

import "context"

// AI — the completion backend, knows nothing about the chat service or the DB
type AI interface {
	GetReply(
		ctx context.Context,
		turns []Message,
	) (string, error)
}

// Message — one conversational turn for the completion backend
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}
