package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"visage/pkg/analysis"
	"visage/pkg/face"
	"visage/pkg/inference"
	"visage/pkg/server"
	"visage/pkg/utils"
	"visage/pkg/video"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	provider := os.Getenv("MODEL_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}
	model := os.Getenv("MODEL_NAME")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	factory := func(apiKey string) (inference.Inferencer, error) {
		if provider == "openai" {
			return inference.NewOpenAIInferencer(apiKey, model), nil
		}
		return inference.NewGeminiInferencer(apiKey, model)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/tmp/uploads"
	}
	frames := video.New(uploadDir)

	var detector analysis.Detector
	cascadePath := os.Getenv("FACE_CASCADE")
	if cascadePath == "" {
		cascadePath = "cascade/facefinder"
	}
	if utils.Exists(cascadePath) {
		detector = face.NewDetector(cascadePath, os.Getenv("PUPLOC_CASCADE"))
	} else {
		log.Warn("face cascade not found, locator fusion disabled", "path", cascadePath)
	}

	srv := server.NewServer(ctx, factory, frames, detector, uploadDir)
	srv.Echo.Logger.SetLevel(gommon.INFO)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
	<-finishedShutDown
}
