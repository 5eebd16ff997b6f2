package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Media is a binary payload (video or still image) attached to a multimodal
// inference request.
type Media struct {
	Data     []byte
	MIMEType string
}

// Inferencer defines an interface for running model inference over text and
// multimodal payloads.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	InferMedia(ctx context.Context, media Media, prompt string) (string, error)
}
