package analysis

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"visage/pkg/schema"
	"visage/pkg/video"
)

// defaultNotFoundMessage is reported when the model signals a refusal without
// explaining itself.
const defaultNotFoundMessage = "주인공으로 삼을 만한 인물이 영상에 없습니다."

// rawResponse is the superset of what the model may send back. Pointer fields
// distinguish "absent" from zero so field resolution can fall through.
type rawResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Meta    *struct {
		FrameNumber *int            `json:"frame_number"`
		TotalFrames *int            `json:"total_frames"`
		FPSUsed     *float64        `json:"fps_used"`
		BBox        *schema.Locator `json:"bbox"`
	} `json:"meta"`
	VA *struct {
		Valence *int `json:"valence"`
		Arousal *int `json:"arousal"`
	} `json:"VA"`
	ClassType          []schema.ClassEntry      `json:"class_type"`
	SubjectDescription []schema.DescriptionItem `json:"subject_description"`
}

// Parse decodes normalized response text into an AnalysisResult. Measured
// metadata, when supplied, wins over whatever the model reported; missing
// values fall back to fixed defaults. The start time is always recomputed
// from the frame index, never trusted from the response.
func Parse(normalized string, authoritative *video.Metadata) (*schema.AnalysisResult, error) {
	var raw rawResponse
	if err := json.Unmarshal([]byte(normalized), &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	if raw.Error {
		message := raw.Message
		if message == "" {
			message = defaultNotFoundMessage
		}
		log.Warn("model declined to analyze", "message", message)
		return nil, &SubjectNotFoundError{Message: message}
	}

	frameNumber := 0
	if raw.Meta != nil && raw.Meta.FrameNumber != nil {
		frameNumber = *raw.Meta.FrameNumber
	}

	// Each field falls through independently: a probe can succeed yet leave
	// individual fields unmeasured (webm/mkv containers often omit stream
	// durations), and those gaps still defer to the response value.
	fps := 30.0
	if authoritative != nil && authoritative.FPS > 0 {
		fps = authoritative.FPS
	} else if raw.Meta != nil && raw.Meta.FPSUsed != nil && *raw.Meta.FPSUsed > 0 {
		fps = *raw.Meta.FPSUsed
	}

	totalFrames := 0
	if authoritative != nil && authoritative.TotalFrames > 0 {
		totalFrames = authoritative.TotalFrames
	} else if raw.Meta != nil && raw.Meta.TotalFrames != nil {
		totalFrames = *raw.Meta.TotalFrames
	}

	meta := schema.Meta{
		FrameNumber: frameNumber,
		TotalFrames: totalFrames,
		FPSUsed:     fps,
		StartTime:   Round4(float64(frameNumber) / fps),
	}
	if raw.Meta != nil && raw.Meta.BBox != nil {
		meta.BBox = *raw.Meta.BBox
	}

	var va schema.ValenceArousal
	if raw.VA != nil {
		if raw.VA.Valence != nil {
			va.Valence = *raw.VA.Valence
		}
		if raw.VA.Arousal != nil {
			va.Arousal = *raw.VA.Arousal
		}
	}

	result := &schema.AnalysisResult{
		Meta:               meta,
		VA:                 va,
		ClassType:          raw.ClassType,
		SubjectDescription: raw.SubjectDescription,
	}
	log.Debug("response parsed",
		"frame_number", meta.FrameNumber,
		"fps_used", meta.FPSUsed,
		"start_time", meta.StartTime,
		"authoritative", authoritative != nil,
	)
	return result, nil
}
