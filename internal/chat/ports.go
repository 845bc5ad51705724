package chat

import "context"

// User — mirror of the directory entry kept in Postgres
type User struct {
	UserID string
	Name   string
	Email  string
}

// ChatMessage — one request/response turn, immutable once stored
type ChatMessage struct {
	ID        int64
	UserID    string
	Message   string
	Reply     string
	CreatedAt int64
}

// Repo — persistence
type Repo interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	SaveUser(ctx context.Context, u *User) error
	SaveChat(ctx context.Context, msg *ChatMessage) error
	GetHistory(ctx context.Context, userID string) ([]ChatMessage, error)
}

// Directory — the managed chat service's user registry
type Directory interface {
	QueryUser(ctx context.Context, userID string) (bool, error)
	UpsertUser(ctx context.Context, userID, name, email, role string) error
}

// Channels — conversation containers in the managed chat service
type Channels interface {
	EnsureChannel(ctx context.Context, channelType, channelID, name, createdByID string) error
	SendMessage(ctx context.Context, channelType, channelID, senderID, text string) error
}

// Service — per-request orchestration, no state across requests
type Service interface {
	RegisterUser(ctx context.Context, name, email string) (*User, error)
	SendChat(ctx context.Context, userID, message string) (string, error)
	History(ctx context.Context, userID string) ([]ChatMessage, error)
}
