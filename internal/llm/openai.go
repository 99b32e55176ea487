package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the language-model collaborator: instruction plus user text in,
// free text out. Callers must not assume anything about the reply's shape.
type Client interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// OpenAI implements Client over the chat completions API.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAI(apiKey, model string, temperature float32) *OpenAI {
	return &OpenAI{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}
}

func (o *OpenAI) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Raw exposes the underlying client for the streaming and transcription
// endpoints, which need more than the Generate contract.
func (o *OpenAI) Raw() *openai.Client { return o.client }

func (o *OpenAI) Model() string { return o.model }
