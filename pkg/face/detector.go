package face

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	pigo "github.com/esimov/pigo/core"

	"visage/pkg/schema"
)

const minDetectionQuality = 5.0

// Detector finds faces in still images with a pigo cascade and reports the
// nose position of the most prominent one. The cascade is loaded lazily on
// first use and shared across requests; cascade inference is not reentrant,
// so calls are serialized with a mutex.
type Detector struct {
	CascadePath string
	PuplocPath  string

	once       sync.Once
	loadErr    error
	classifier *pigo.Pigo
	puploc     *pigo.PuplocCascade
	mu         sync.Mutex
}

// NewDetector returns a detector reading cascades from the given paths.
// puplocPath may be empty; without it the nose is approximated from the face
// box instead of pupil landmarks.
func NewDetector(cascadePath, puplocPath string) *Detector {
	return &Detector{CascadePath: cascadePath, PuplocPath: puplocPath}
}

func (d *Detector) load() {
	cascade, err := os.ReadFile(d.CascadePath)
	if err != nil {
		d.loadErr = fmt.Errorf("failed to read face cascade: %w", err)
		return
	}
	d.classifier, err = pigo.NewPigo().Unpack(cascade)
	if err != nil {
		d.loadErr = fmt.Errorf("failed to unpack face cascade: %w", err)
		return
	}

	if d.PuplocPath != "" {
		plc, err := os.ReadFile(d.PuplocPath)
		if err != nil {
			log.Warn("puploc cascade unavailable, nose will be approximated", "error", err)
			return
		}
		d.puploc, err = pigo.NewPuplocCascade().UnpackCascade(plc)
		if err != nil {
			log.Warn("failed to unpack puploc cascade, nose will be approximated", "error", err)
			d.puploc = nil
		}
	}

	log.Info("face detection cascades loaded", "puploc", d.puploc != nil)
}

// NosePosition detects faces in the image at framePath, picks the one with
// the largest box area, and returns its nose point. Zero detections is an
// error here; the fusion boundary treats it as "no fusion data available".
func (d *Detector) NosePosition(framePath string) (schema.Point, error) {
	d.once.Do(d.load)
	if d.loadErr != nil {
		return schema.Point{}, d.loadErr
	}

	src, err := pigo.GetImage(framePath)
	if err != nil {
		return schema.Point{}, fmt.Errorf("failed to load frame: %w", err)
	}

	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	params := pigo.CascadeParams{
		MinSize:     60,
		MaxSize:     rows,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	best, found := largestFace(dets)
	if !found {
		return schema.Point{}, errors.New("no face detected")
	}

	nose := d.nosePoint(best, params.ImageParams)

	log.Debug("face detected",
		"faces", len(dets),
		"scale", best.Scale,
		"quality", best.Q,
		"nose", nose,
	)
	return nose, nil
}

// largestFace picks the detection with the biggest box area. Detections are
// square, so the largest scale is the largest area.
func largestFace(dets []pigo.Detection) (pigo.Detection, bool) {
	var best pigo.Detection
	found := false
	for _, det := range dets {
		if det.Q < minDetectionQuality {
			continue
		}
		if !found || det.Scale > best.Scale {
			best, found = det, true
		}
	}
	return best, found
}

// nosePoint locates the nose inside a detected face. With a puploc cascade
// the pupils are detected and the nose sits below their midpoint; otherwise
// the face box center stands in for it.
func (d *Detector) nosePoint(face pigo.Detection, img pigo.ImageParams) schema.Point {
	if d.puploc == nil {
		return schema.Point{X: face.Col, Y: face.Row}
	}

	left := d.puploc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*float32(face.Scale)),
		Col:      face.Col - int(0.175*float32(face.Scale)),
		Scale:    float32(face.Scale) * 0.25,
		Perturbs: 50,
	}, img, 0.0, false)

	right := d.puploc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*float32(face.Scale)),
		Col:      face.Col + int(0.185*float32(face.Scale)),
		Scale:    float32(face.Scale) * 0.25,
		Perturbs: 50,
	}, img, 0.0, false)

	if left.Row <= 0 || right.Row <= 0 {
		return schema.Point{X: face.Col, Y: face.Row}
	}

	// Nose tip sits roughly a quarter face-height below the pupil line.
	return schema.Point{
		X: (left.Col + right.Col) / 2,
		Y: (left.Row+right.Row)/2 + int(0.25*float32(face.Scale)),
	}
}
