package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/glowlab/skinsight/internal/domain/vision"
	"github.com/glowlab/skinsight/internal/infra/ai/prompt"
)

const (
	defaultModel   = "gpt-4o"
	defaultTimeout = 60 * time.Second
	maxTokens      = 2048
	// low sampling temperature for a deterministic-leaning response
	temperature = 0.2
)

type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	retry   retryPolicy
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		api:     openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		retry:   defaultRetryPolicy(),
	}
}

// Analyze sends the three signed image URLs plus the instruction in a
// single chat completion and returns the contract-validated result.
// Provider 429/5xx responses are retried; malformed or contract-violating
// output is surfaced immediately.
func (c *Client) Analyze(ctx context.Context, imageURLs []string) (*vision.Result, error) {
	if len(imageURLs) != vision.RequiredImages {
		return nil, vision.ErrInvalidImageCount
	}

	parts := make([]openai.ChatMessagePart, 0, len(imageURLs)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt.GetUserPrompt(),
	})
	for _, u := range imageURLs {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    u,
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	}

	var content string
	err := c.retry.do(ctx, func() error {
		actx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(actx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return &vision.MalformedOutputError{Err: fmt.Errorf("empty completion")}
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		if isTransient(err) {
			return nil, fmt.Errorf("%w: %v", vision.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("vision completion: %w", err)
	}

	return vision.Parse(content)
}
