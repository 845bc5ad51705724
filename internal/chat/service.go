package chat

import (
	"context"
	"log"
	"regexp"

	"github.com/juans5/Chatbot-backend/internal/ai"
)

const (
	channelType = "messaging"
	channelName = "AI Chat"
	botUserID   = "ai_bot"

	// returned and persisted when the completion backend yields no content
	fallbackReply = "No responde from AI"
)

var userIDPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeUserID derives the natural key from an email: every character
// outside [A-Za-z0-9_-] becomes "_".
func SanitizeUserID(email string) string {
	return userIDPattern.ReplaceAllString(email, "_")
}

type service struct {
	repo      Repo
	ai        ai.AI
	directory Directory
	channels  Channels
}

func NewService(repo Repo, aiClient ai.AI, directory Directory, channels Channels) Service {
	return &service{
		repo:      repo,
		ai:        aiClient,
		directory: directory,
		channels:  channels,
	}
}

// RegisterUser creates the directory entry and the Postgres mirror row,
// each guarded by an existence check so repeated calls stay idempotent.
func (s *service) RegisterUser(ctx context.Context, name, email string) (*User, error) {
	userID := SanitizeUserID(email)

	exists, err := s.directory.QueryUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := s.directory.UpsertUser(ctx, userID, name, email, "user"); err != nil {
			return nil, err
		}
	}

	stored, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		log.Printf("[svc] user %s is not in the database, adding", userID)
		if err := s.repo.SaveUser(ctx, &User{UserID: userID, Name: name, Email: email}); err != nil {
			return nil, err
		}
	}

	return &User{UserID: userID, Name: name, Email: email}, nil
}

// SendChat relays one turn: directory and store lookups, completion call,
// history row, channel delivery. The row is durable before delivery, so a
// late channel failure still leaves the turn persisted.
func (s *service) SendChat(ctx context.Context, userID, message string) (string, error) {
	exists, err := s.directory.QueryUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUserNotFound
	}

	stored, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", ErrUserNotStored
	}

	reply, err := s.ai.GetReply(ctx, []ai.Message{{Role: "user", Text: message}})
	if err != nil {
		return "", err
	}
	if reply == "" {
		reply = fallbackReply
	}

	if err := s.repo.SaveChat(ctx, &ChatMessage{
		UserID:  userID,
		Message: message,
		Reply:   reply,
	}); err != nil {
		return "", err
	}

	channelID := "chat-" + userID
	if err := s.channels.EnsureChannel(ctx, channelType, channelID, channelName, botUserID); err != nil {
		return "", err
	}
	if err := s.channels.SendMessage(ctx, channelType, channelID, botUserID, reply); err != nil {
		return "", err
	}

	return reply, nil
}

func (s *service) History(ctx context.Context, userID string) ([]ChatMessage, error) {
	return s.repo.GetHistory(ctx, userID)
}
