package analysis

import "context"

// ModelClient port: a single prompt-in/text-out call to the generative
// backend. No retry or backoff; a failure here is fatal to the request.
type ModelClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// StreamClient port: token-streamed variant used by the conversational
// endpoint. onToken is invoked once per generated chunk.
type StreamClient interface {
	Stream(ctx context.Context, systemPrompt, userPrompt string, onToken func(token string) error) error
	Model() string
}
