package schema

import (
	"encoding/json"
	"fmt"
)

// Point is a pixel coordinate in the source frame, origin at the top-left
// corner.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LocatorKind tags the shape of a Locator.
type LocatorKind int

const (
	// LocatorPoint is the nose-center variant: a single point.
	LocatorPoint LocatorKind = iota
	// LocatorBox is the bounding-box variant: top-left and bottom-right corners.
	LocatorBox
)

// Locator is the spatial descriptor of the subject's face. The model may
// respond with either a single point or a two-corner box depending on the
// deployed prompt; the shape is resolved exactly once, at parse time, and
// never re-inferred downstream.
type Locator struct {
	Kind LocatorKind
	P    Point
	Box  [2]Point
}

// PointLocator builds a nose-center locator.
func PointLocator(x, y int) Locator {
	return Locator{Kind: LocatorPoint, P: Point{X: x, Y: y}}
}

// BoxLocator builds a two-corner box locator.
func BoxLocator(topLeft, bottomRight Point) Locator {
	return Locator{Kind: LocatorBox, Box: [2]Point{topLeft, bottomRight}}
}

func (l Locator) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LocatorBox:
		return json.Marshal(l.Box[:])
	default:
		return json.Marshal(l.P)
	}
}

func (l *Locator) UnmarshalJSON(data []byte) error {
	var p Point
	if err := json.Unmarshal(data, &p); err == nil {
		*l = Locator{Kind: LocatorPoint, P: p}
		return nil
	}
	var box []Point
	if err := json.Unmarshal(data, &box); err == nil && len(box) == 2 {
		*l = Locator{Kind: LocatorBox, Box: [2]Point{box[0], box[1]}}
		return nil
	}
	return fmt.Errorf("locator is neither a point nor a two-point box: %s", data)
}

// Meta carries the resolved frame/time information for the selected frame.
type Meta struct {
	FrameNumber int     `json:"frame_number"`
	TotalFrames int     `json:"total_frames"`
	FPSUsed     float64 `json:"fps_used"`
	StartTime   float64 `json:"start_time"`
	BBox        Locator `json:"bbox"`
}

// ValenceArousal labels the subject's emotion on two integer scales from -3
// to +3. Both default to 0 when the model omits them.
type ValenceArousal struct {
	Valence int `json:"valence"`
	Arousal int `json:"arousal"`
}

// ClassEntry is one classification result: a category key, the canonical
// class number, and the chosen label.
type ClassEntry struct {
	Category string `json:"category"`
	Class    int    `json:"class"`
	Label    string `json:"label"`
}

// Warning records a classification whose label could not be matched against
// the registry. The entry is kept with class 0 instead of failing the
// request; the warning makes the degraded match visible to callers.
type Warning struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Closest  string `json:"closest,omitempty"`
}

// DescriptionItem is one of the five template-based description sentences.
// Text may contain unresolved {{CategoryKey}} placeholders until the refine
// pass substitutes them.
type DescriptionItem struct {
	Category    string `json:"category" jsonschema_description:"One of the five fixed Korean category names: 상황, 위치, 얼굴, 복장, 감정"`
	Description string `json:"description" jsonschema_description:"Complete polished sentence with all template variables substituted"`
}

// AnalysisResult is the finalized outcome of the analyze pipeline.
type AnalysisResult struct {
	Meta               Meta              `json:"meta"`
	VA                 ValenceArousal    `json:"VA"`
	ClassType          []ClassEntry      `json:"class_type"`
	SubjectDescription []DescriptionItem `json:"subject_description"`
	Warnings           []Warning         `json:"warnings,omitempty"`
}

// RefineResponse is the JSON object the refine model must return.
type RefineResponse struct {
	SubjectDescription []DescriptionItem `json:"subject_description" jsonschema_description:"Exactly five polished description sentences, one per fixed category"`
}

// DescriptionChange is a word-level delta between an original description and
// its polished replacement. Op is -1 for removed, 0 for unchanged, +1 for
// added.
type DescriptionChange struct {
	Op   int    `json:"op"`
	Text string `json:"text"`
}

// RefineResult is what the refine endpoint returns: the polished items, the
// combined narrative in canonical category order, and per-category deltas.
type RefineResult struct {
	SubjectDescription  []DescriptionItem              `json:"subject_description"`
	CombinedDescription string                         `json:"combined_description"`
	Changes             map[string][]DescriptionChange `json:"changes,omitempty"`
}
