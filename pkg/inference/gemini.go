package inference

import (
	"cmp"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Gemini 2.5 Flash pricing per one million tokens, used for request cost
// logging only.
const (
	geminiInputPricePer1M  = 0.30
	geminiOutputPricePer1M = 2.50
)

type GeminiInferencer struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiInferencer creates an inferencer backed by the Gemini API. Video
// analysis requires this provider since it is the only one accepting inline
// video payloads.
func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (o *GeminiInferencer) SetModel(model string) {
	o.model = model
}

// Infer sends a text-only request and returns the model output. The response
// MIME type is pinned to JSON so the model does not wrap its answer in prose.
func (o *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleModel),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   int32(cmp.Or(params.MaxCompletionTokens.Value, 8192)),
	}

	result, err := o.client.Models.GenerateContent(
		ctx,
		cmp.Or(params.Model, o.model),
		genai.Text(user),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	o.logUsage(result)

	return result.Text(), nil
}

// InferMedia sends a binary payload (video or image) together with an
// instruction prompt and returns the model output.
func (o *GeminiInferencer) InferMedia(ctx context.Context, media Media, prompt string) (string, error) {
	if len(media.Data) == 0 {
		return "", fmt.Errorf("empty media payload")
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  8192,
		Temperature:      genai.Ptr[float32](0),
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(media.Data, media.MIMEType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := o.client.Models.GenerateContent(ctx, o.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	o.logUsage(result)

	return result.Text(), nil
}

func (o *GeminiInferencer) logUsage(result *genai.GenerateContentResponse) {
	usage := result.UsageMetadata
	if usage == nil {
		log.Debug("gemini response carried no usage metadata")
		return
	}
	inputCost := float64(usage.PromptTokenCount) / 1_000_000 * geminiInputPricePer1M
	outputCost := float64(usage.CandidatesTokenCount) / 1_000_000 * geminiOutputPricePer1M
	log.Info("gemini usage",
		"model", o.model,
		"input_tokens", usage.PromptTokenCount,
		"output_tokens", usage.CandidatesTokenCount,
		"total_tokens", usage.TotalTokenCount,
		"est_cost_usd", fmt.Sprintf("%.6f", inputCost+outputCost),
	)
}
