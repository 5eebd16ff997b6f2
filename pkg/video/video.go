package video

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"
)

// Captured reference frames are normalized to a fixed resolution so locator
// coordinates stay comparable between the model estimate and the local
// detector.
const (
	TargetWidth  = 1920
	TargetHeight = 1080
)

// Metadata is the authoritative measurement of a video, extracted locally
// with ffprobe. These values are trusted over anything the model reports.
type Metadata struct {
	Duration    float64 `json:"duration"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// CaptureRequest asks for a single still frame out of a video.
type CaptureRequest struct {
	VideoPath   string
	FrameNumber int
	FPS         float64
}

// FFmpeg shells out to the ffmpeg/ffprobe binaries for frame extraction and
// metadata measurement.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	WorkDir     string
	Timeout     time.Duration
}

// New returns an FFmpeg runner writing captured frames under workDir.
func New(workDir string) *FFmpeg {
	return &FFmpeg{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		WorkDir:     workDir,
		Timeout:     30 * time.Second,
	}
}

type probeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		Duration   string `json:"duration"`
		NBFrames   string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe measures duration, frame rate, frame count, and resolution of the
// first video stream.
func (f *FFmpeg) Probe(ctx context.Context, videoPath string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,duration,width,height,nb_frames:format=duration",
		"-of", "json",
		videoPath,
	}
	out, err := exec.CommandContext(ctx, f.FFprobePath, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	meta, err := parseProbeOutput(out)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, filepath.Base(videoPath))
	}
	log.Info("video metadata measured",
		"resolution", fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		"fps", meta.FPS,
		"duration", meta.Duration,
		"total_frames", meta.TotalFrames,
	)
	return meta, nil
}

// parseProbeOutput turns ffprobe JSON into Metadata. Matroska-family
// containers keep the duration on the format section rather than the stream,
// and usually carry no nb_frames, so both fall back before frame counts are
// derived.
func parseProbeOutput(out []byte) (*Metadata, error) {
	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return nil, fmt.Errorf("ffprobe output unreadable: %w", err)
	}
	if len(probed.Streams) == 0 {
		return nil, fmt.Errorf("no video stream")
	}
	stream := probed.Streams[0]

	fps := parseFrameRate(stream.RFrameRate)

	duration, _ := strconv.ParseFloat(stream.Duration, 64)
	if duration <= 0 {
		duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	}

	totalFrames, err := strconv.Atoi(stream.NBFrames)
	if err != nil || totalFrames <= 0 {
		totalFrames = int(math.Floor(duration * fps))
	}

	return &Metadata{
		Duration:    math.Round(duration*100) / 100,
		FPS:         math.Round(fps*100) / 100,
		TotalFrames: totalFrames,
		Width:       stream.Width,
		Height:      stream.Height,
	}, nil
}

// parseFrameRate converts ffprobe's "30000/1001" form into a float.
func parseFrameRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		f, _ := strconv.ParseFloat(r, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// Capture extracts the requested frame into a PNG at 1920x1080 (aspect ratio
// preserved, padded) and returns its path. The caller owns the file and must
// Delete it when done.
func (f *FFmpeg) Capture(ctx context.Context, req CaptureRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	fps := req.FPS
	if fps <= 0 {
		fps = 30
	}
	timeSec := float64(req.FrameNumber) / fps

	if err := os.MkdirAll(f.WorkDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create frame directory: %w", err)
	}
	outputFile := filepath.Join(f.WorkDir, fmt.Sprintf("frame_%d_%s.png", req.FrameNumber, ksuid.New().String()))

	args := []string{
		"-ss", strconv.FormatFloat(timeSec, 'f', 3, 64),
		"-i", req.VideoPath,
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			TargetWidth, TargetHeight, TargetWidth, TargetHeight),
		"-frames:v", "1",
		"-y",
		outputFile,
	}

	log.Debug("capturing frame", "frame", req.FrameNumber, "time", timeSec)
	if err := exec.CommandContext(ctx, f.FFmpegPath, args...).Run(); err != nil {
		return "", fmt.Errorf("frame capture failed: %w", err)
	}

	return outputFile, nil
}

// Delete removes a captured frame. Failure is logged, not returned; a stale
// temp file must never fail the request that produced it.
func (f *FFmpeg) Delete(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warn("failed to delete captured frame", "path", path, "error", err)
	}
}
