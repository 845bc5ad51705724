package ai

import (
	"context"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "openai/gpt-oss-120b"
)

// GroqClient talks OpenAI wire format against Groq's compatible endpoint.
type GroqClient struct {
	client *openai.Client
	model  string
}

func NewGroqClient() *GroqClient {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		log.Fatal("GROQ_API_KEY not set")
	}

	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = defaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &GroqClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GetReply submits the turns as-is and returns the first choice's content.
// An empty result ("" with nil error) means the backend produced no content;
// the caller decides what to substitute.
func (c *GroqClient) GetReply(
	ctx context.Context,
	turns []Message,
) (string, error) {

	msgs := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Text,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		log.Println("[ai] completion error:", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		log.Println("[ai] empty choices")
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
