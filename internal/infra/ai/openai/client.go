package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/serplab/rankforensics/internal/domain/analysis"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), model: model}
}

func (c *Client) Model() string {
	if c.model == "" {
		return "gpt-4o-mini"
	}
	return c.model
}

// Complete performs the single analysis call. No retries; a failure here is
// the hard failure of the request.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	setTokenLimit(&req)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapAPIErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream performs a token-streamed chat call, invoking onToken per chunk.
func (c *Client) Stream(ctx context.Context, systemPrompt, userPrompt string, onToken func(string) error) error {
	req := openai.ChatCompletionRequest{
		Model:  c.Model(),
		Stream: true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	setTokenLimit(&req)

	stream, err := c.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return wrapAPIErr(err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return wrapAPIErr(err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onToken(delta); err != nil {
				return err
			}
		}
	}
}

// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens.
func setTokenLimit(req *openai.ChatCompletionRequest) {
	m := req.Model
	if strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4") || strings.HasPrefix(m, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
}

func wrapAPIErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return analysis.ErrQuotaExceeded
	}
	return fmt.Errorf("chat completion: %w", err)
}
