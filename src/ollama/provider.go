package ollama

import (
	"context"

	"insureval/src/core/evaluation"
)

// Provider adapts the Ollama client to the evaluation.LLMClient
// interface for a fixed model.
type Provider struct {
	ollamaClient *Client
	modelName    string
	options      map[string]interface{}
}

func NewProvider(ollamaClient *Client, modelName string) *Provider {
	return &Provider{
		ollamaClient: ollamaClient,
		modelName:    modelName,
		options: map[string]interface{}{
			"temperature": 0.7,
			"top_p":       0.9,
		},
	}
}

func (p *Provider) Chat(ctx context.Context, messages []evaluation.Message) (string, error) {
	chatMessages := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, ChatMessage{Role: m.Role, Content: m.Content})
	}

	return p.ollamaClient.Chat(ctx, p.modelName, chatMessages, p.options)
}

// Model returns the model name this provider targets.
func (p *Provider) Model() string {
	return p.modelName
}
