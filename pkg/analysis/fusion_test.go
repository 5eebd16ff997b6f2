package analysis

import (
	"context"
	"errors"
	"testing"

	"visage/pkg/schema"
	"visage/pkg/video"
)

type stubFrames struct {
	capturePath string
	captureErr  error
	deleted     []string
}

func (s *stubFrames) Probe(context.Context, string) (*video.Metadata, error) {
	return nil, errors.New("not probed in this test")
}

func (s *stubFrames) Capture(context.Context, video.CaptureRequest) (string, error) {
	return s.capturePath, s.captureErr
}

func (s *stubFrames) Delete(path string) {
	s.deleted = append(s.deleted, path)
}

type stubDetector struct {
	nose schema.Point
	err  error
}

func (s *stubDetector) NosePosition(string) (schema.Point, error) {
	return s.nose, s.err
}

func TestFuseLocator(t *testing.T) {
	modelEstimate := schema.PointLocator(450, 300)

	tests := []struct {
		name        string
		frames      *stubFrames
		detector    Detector
		wantLocator schema.Locator
		wantDeleted int
	}{
		{
			name:        "detection overwrites model estimate",
			frames:      &stubFrames{capturePath: "frame.png"},
			detector:    &stubDetector{nose: schema.Point{X: 640, Y: 360}},
			wantLocator: schema.PointLocator(640, 360),
			wantDeleted: 1,
		},
		{
			name:        "detection failure keeps model estimate",
			frames:      &stubFrames{capturePath: "frame.png"},
			detector:    &stubDetector{err: errors.New("no face found")},
			wantLocator: modelEstimate,
			wantDeleted: 1,
		},
		{
			name:        "capture failure keeps model estimate, nothing to delete",
			frames:      &stubFrames{captureErr: errors.New("ffmpeg exited 1")},
			detector:    &stubDetector{nose: schema.Point{X: 640, Y: 360}},
			wantLocator: modelEstimate,
		},
		{
			name:        "no detector configured",
			frames:      &stubFrames{capturePath: "frame.png"},
			wantLocator: modelEstimate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &schema.AnalysisResult{}
			result.Meta.BBox = modelEstimate

			fuseLocator(context.Background(), tt.frames, tt.detector, "video.mp4", result)

			if result.Meta.BBox != tt.wantLocator {
				t.Errorf("locator = %+v, want %+v", result.Meta.BBox, tt.wantLocator)
			}
			if len(tt.frames.deleted) != tt.wantDeleted {
				t.Errorf("deleted %d frames, want %d", len(tt.frames.deleted), tt.wantDeleted)
			}
		})
	}
}
