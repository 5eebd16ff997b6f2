package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var RefineResponseSchema = generateSchema[RefineResponse]()

// RefineResponseFormat constrains OpenAI refine calls to the RefineResponse
// shape via structured outputs. The Gemini path relies on the JSON response
// MIME type instead; both still go through the defensive extractor.
func RefineResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "subject_description_refine",
		Description: openai.String("Polished per-category subject descriptions for an analyzed video"),
		Schema:      RefineResponseSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
