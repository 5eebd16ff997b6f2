package analysis

import (
	"context"

	"github.com/charmbracelet/log"

	"visage/pkg/schema"
	"visage/pkg/video"
)

// FrameSource captures single reference frames out of a video. Captured
// frames are transient and must be handed back through Delete.
type FrameSource interface {
	Probe(ctx context.Context, videoPath string) (*video.Metadata, error)
	Capture(ctx context.Context, req video.CaptureRequest) (string, error)
	Delete(path string)
}

// Detector locates the most prominent face in a still image and reports its
// nose position.
type Detector interface {
	NosePosition(framePath string) (schema.Point, error)
}

// fuseLocator replaces the model's coordinate estimate with a locally
// detected nose position. The local detector is ground truth when it finds a
// face; any failure on this path is absorbed and the model estimate stands.
// The reference frame is deleted on every path.
func fuseLocator(ctx context.Context, frames FrameSource, detector Detector, videoPath string, result *schema.AnalysisResult) {
	if detector == nil {
		return
	}

	framePath, err := frames.Capture(ctx, video.CaptureRequest{
		VideoPath:   videoPath,
		FrameNumber: result.Meta.FrameNumber,
		FPS:         result.Meta.FPSUsed,
	})
	if err != nil {
		log.Warn("reference frame capture failed, keeping model estimate", "error", err)
		return
	}
	defer frames.Delete(framePath)

	nose, err := detector.NosePosition(framePath)
	if err != nil {
		log.Warn("face landmark detection failed, keeping model estimate", "error", err)
		return
	}

	log.Info("locator fused from local detection",
		"model", result.Meta.BBox,
		"detected", nose,
	)
	result.Meta.BBox = schema.PointLocator(nose.X, nose.Y)
}
