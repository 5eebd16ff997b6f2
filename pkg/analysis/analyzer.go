package analysis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"visage/pkg/inference"
	"visage/pkg/schema"
	"visage/pkg/utils"
)

// Analyzer runs the full video analysis pipeline: measure the video, ask the
// model, repair and parse its answer, reconcile classifications against the
// registry, and fuse the locator with local face detection.
type Analyzer struct {
	Inferencer inference.Inferencer
	Frames     FrameSource
	Detector   Detector
	Timeout    time.Duration
}

// NewAnalyzer wires an analyzer with the default model-call deadline.
func NewAnalyzer(inferencer inference.Inferencer, frames FrameSource, detector Detector) *Analyzer {
	return &Analyzer{
		Inferencer: inferencer,
		Frames:     frames,
		Detector:   detector,
		Timeout:    5 * time.Minute,
	}
}

// AnalyzeVideo analyzes the uploaded video at videoPath. The caller owns the
// file and deletes it; the analyzer only reads it.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, videoPath, mimeType string) (*schema.AnalysisResult, error) {
	started := time.Now()

	meta, err := a.Frames.Probe(ctx, videoPath)
	if err != nil {
		log.Warn("video metadata measurement failed, model values will be trusted", "error", err)
		meta = nil
	}

	data, err := os.ReadFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}

	prompt := BuildPrompt(meta)
	if tokens, err := utils.NumTokens(prompt); err == nil {
		log.Debug("analysis prompt built", "tokens", tokens, "video_bytes", len(data))
	}

	inferCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	raw, err := a.Inferencer.InferMedia(inferCtx, inference.Media{Data: data, MIMEType: mimeType}, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	extracted, err := ExtractObject(raw)
	if err != nil {
		log.Error("no JSON object in model response", "response", utils.LimitStr(raw, 300))
		return nil, err
	}
	normalized := NormalizeNumericText(extracted)

	result, err := Parse(normalized, meta)
	if err != nil {
		return nil, err
	}

	result.ClassType, result.Warnings = Reconcile(result.ClassType)

	fuseLocator(ctx, a.Frames, a.Detector, videoPath, result)

	log.Info("video analysis complete",
		"duration", time.Since(started).Round(time.Millisecond),
		"frame_number", result.Meta.FrameNumber,
		"start_time", result.Meta.StartTime,
		"warnings", len(result.Warnings),
	)
	return result, nil
}
