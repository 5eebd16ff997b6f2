package server

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"

	"visage/pkg/analysis"
	"visage/pkg/inference"
	"visage/pkg/utils"
	"visage/pkg/video"
)

// InferencerFactory builds an inferencer for the API key a request carries.
// Keys are per-request; the server never holds one of its own.
type InferencerFactory func(apiKey string) (inference.Inferencer, error)

type Server struct {
	Echo          *echo.Echo
	NewInferencer InferencerFactory
	Frames        *video.FFmpeg
	Detector      analysis.Detector
	UploadDir     string
	Ctx           context.Context
}

func NewServer(ctx context.Context, factory InferencerFactory, frames *video.FFmpeg, detector analysis.Detector, uploadDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("100M"))

	s := &Server{
		Echo:          e,
		NewInferencer: factory,
		Frames:        frames,
		Detector:      detector,
		UploadDir:     uploadDir,
		Ctx:           ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api/video")
	api.POST("/analyze", s.handlePostAnalyze)            // full analysis -> schema.AnalysisResult
	api.POST("/analyzer-desc", s.handlePostRefine)       // description polishing -> schema.RefineResult
	api.POST("/capture-frame", s.handlePostCaptureFrame) // single frame as base64 webp
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	return s.Echo.Shutdown(ctx)
}

// videoMIMETypes is the upload allowlist. The MIME type is derived from the
// extension, not trusted from the client.
var videoMIMETypes = map[string]string{
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// apiKey reads the model API key from the form field or the X-API-Key header.
func (s *Server) apiKey(c echo.Context) string {
	if key := c.FormValue("apiKey"); key != "" {
		return key
	}
	return c.Request().Header.Get("X-API-Key")
}

// saveUpload stores the uploaded video under a unique name and returns its
// path and resolved MIME type. The caller owns the file and must remove it on
// every exit path.
func (s *Server) saveUpload(c echo.Context) (string, string, error) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return "", "", fmt.Errorf("비디오 파일이 필요합니다.")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	mimeType, ok := videoMIMETypes[ext]
	if !ok {
		return "", "", fmt.Errorf("비디오 파일만 업로드 가능합니다. 허용된 확장자: mp4, mpeg, mov, avi, mkv, webm")
	}

	if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst := filepath.Join(s.UploadDir, "video-"+ksuid.New().String()+ext)
	if err := copyUpload(fileHeader, dst); err != nil {
		return "", "", err
	}

	log.Info("video uploaded",
		"name", utils.SanitizeFilename(fileHeader.Filename),
		"size_mb", fmt.Sprintf("%.2f", float64(fileHeader.Size)/1024/1024),
		"mime", mimeType,
	)
	return dst, mimeType, nil
}

func copyUpload(fileHeader *multipart.FileHeader, dst string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to store upload: %w", err)
	}
	return nil
}
