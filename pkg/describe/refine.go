package describe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"visage/pkg/analysis"
	"visage/pkg/category"
	"visage/pkg/inference"
	"visage/pkg/schema"
	"visage/pkg/utils"
)

// Request is the input of the description refinement pass: finalized
// classifications plus the five template-based description sentences.
type Request struct {
	ClassType          []schema.ClassEntry      `json:"class_type"`
	SubjectDescription []schema.DescriptionItem `json:"subject_description"`
}

// Validate checks the request against the category registry before any model
// call is made. The classification array must cover every category key with a
// registered label; the description array must hold exactly five items, one
// per fixed category name, each with non-empty text.
func (r Request) Validate() error {
	byCategory := make(map[string]schema.ClassEntry, len(r.ClassType))
	for _, entry := range r.ClassType {
		byCategory[entry.Category] = entry
	}
	for _, key := range category.Keys {
		entry, ok := byCategory[key]
		if !ok {
			return &analysis.ValidationError{
				Field:  "class_type",
				Reason: fmt.Sprintf("missing category %q", key),
			}
		}
		if _, ok := category.ClassByLabel(key, entry.Label); !ok {
			return &analysis.ValidationError{
				Field:  "class_type",
				Reason: fmt.Sprintf("label %q is not registered for category %q", entry.Label, key),
			}
		}
	}

	byName := make(map[string]schema.DescriptionItem, len(r.SubjectDescription))
	for _, item := range r.SubjectDescription {
		byName[item.Category] = item
	}
	for _, name := range category.DescriptionNames {
		item, ok := byName[name]
		if !ok {
			return &analysis.ValidationError{
				Field:  "subject_description",
				Reason: fmt.Sprintf("missing description for %q", name),
			}
		}
		if strings.TrimSpace(item.Description) == "" {
			return &analysis.ValidationError{
				Field:  "subject_description",
				Reason: fmt.Sprintf("description for %q is empty", name),
			}
		}
	}
	if len(r.SubjectDescription) != len(category.DescriptionNames) {
		return &analysis.ValidationError{
			Field:  "subject_description",
			Reason: fmt.Sprintf("expected %d items, got %d", len(category.DescriptionNames), len(r.SubjectDescription)),
		}
	}

	return nil
}

// Refiner polishes description sentences through a language model and
// reassembles them into one combined narrative.
type Refiner struct {
	Inferencer inference.Inferencer
	Timeout    time.Duration
}

// NewRefiner wires a refiner with the default model-call deadline.
func NewRefiner(inferencer inference.Inferencer) *Refiner {
	return &Refiner{Inferencer: inferencer, Timeout: 2 * time.Minute}
}

// Improve validates the request, asks the model for polished sentences, and
// returns them with a combined narrative and per-category word deltas against
// the originals.
func (r *Refiner) Improve(ctx context.Context, req Request) (*schema.RefineResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := buildPrompt(req.ClassType, req.SubjectDescription)
	if tokens, err := utils.NumTokens(prompt); err == nil {
		log.Debug("refine prompt built", "tokens", tokens)
	}

	inferCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	raw, err := r.Inferencer.Infer(inferCtx, &openai.ChatCompletionNewParams{
		ResponseFormat: schema.RefineResponseFormat(),
	}, refineSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	refined, err := parseRefineResponse(raw)
	if err != nil {
		return nil, err
	}

	result := &schema.RefineResult{
		SubjectDescription:  refined.SubjectDescription,
		CombinedDescription: Combine(refined.SubjectDescription),
		Changes:             describeChanges(req.SubjectDescription, refined.SubjectDescription),
	}

	log.Info("descriptions refined", "combined_length", len(result.CombinedDescription))
	return result, nil
}

// parseRefineResponse runs the refine model's answer through the same
// extraction and numeric repair as the analyze pipeline, then checks the
// five-item shape.
func parseRefineResponse(raw string) (*schema.RefineResponse, error) {
	extracted, err := analysis.ExtractObject(raw)
	if err != nil {
		log.Error("no JSON object in refine response", "response", utils.LimitStr(raw, 300))
		return nil, err
	}
	normalized := analysis.NormalizeNumericText(extracted)

	refined := new(schema.RefineResponse)
	if err := json.Unmarshal([]byte(normalized), refined); err != nil {
		return nil, &analysis.ParseError{Err: err}
	}
	if len(refined.SubjectDescription) != len(category.DescriptionNames) {
		return nil, &analysis.ValidationError{
			Field:  "subject_description",
			Reason: fmt.Sprintf("model returned %d items, expected %d", len(refined.SubjectDescription), len(category.DescriptionNames)),
		}
	}
	return refined, nil
}

// Combine concatenates description texts in the fixed canonical category
// order, joined by single spaces, skipping empty entries. Items are looked up
// by category name, so the input order never affects the output.
func Combine(items []schema.DescriptionItem) string {
	byName := make(map[string]string, len(items))
	for _, item := range items {
		byName[item.Category] = strings.TrimSpace(item.Description)
	}

	parts := make([]string, 0, len(category.DescriptionNames))
	for _, name := range category.DescriptionNames {
		if text := byName[name]; text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// describeChanges computes word-level deltas between original and polished
// sentences, keyed by category name.
func describeChanges(before, after []schema.DescriptionItem) map[string][]schema.DescriptionChange {
	byName := make(map[string]string, len(before))
	for _, item := range before {
		byName[item.Category] = item.Description
	}

	changes := make(map[string][]schema.DescriptionChange)
	for _, item := range after {
		deltas := utils.DiffWords(byName[item.Category], item.Description)
		var categoryChanges []schema.DescriptionChange
		for _, delta := range deltas {
			if delta.Op == 0 {
				continue
			}
			categoryChanges = append(categoryChanges, schema.DescriptionChange{Op: delta.Op, Text: delta.Text})
		}
		if len(categoryChanges) > 0 {
			changes[item.Category] = categoryChanges
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
