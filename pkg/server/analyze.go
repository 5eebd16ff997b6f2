package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"visage/pkg/analysis"
	"visage/pkg/utils"
)

func (s *Server) handlePostAnalyze(c echo.Context) error {
	apiKey := s.apiKey(c)
	if apiKey == "" {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("API 키가 필요합니다."))
	}

	filePath, mimeType, err := s.saveUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(err.Error()))
	}
	defer os.Remove(filePath)

	inferencer, err := s.NewInferencer(apiKey)
	if err != nil {
		log.Error("failed to build inferencer", "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("분석기 초기화에 실패했습니다."))
	}

	analyzer := analysis.NewAnalyzer(inferencer, s.Frames, s.Detector)
	result, err := analyzer.AnalyzeVideo(c.Request().Context(), filePath, mimeType)
	if err != nil {
		return s.analysisError(c, err)
	}

	return c.JSON(http.StatusOK, utils.OKJSON(result))
}

// analysisError maps pipeline failures onto HTTP statuses. The model's own
// refusal is a client-visible negative result, model gibberish is an upstream
// fault, anything else is ours.
func (s *Server) analysisError(c echo.Context, err error) error {
	var notFound *analysis.SubjectNotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusUnprocessableEntity, utils.ErrJSON(notFound.Message))
	}

	var parseErr *analysis.ParseError
	if errors.As(err, &parseErr) || errors.Is(err, analysis.ErrMalformedResponse) {
		log.Error("unusable model response", "error", err)
		return c.JSON(http.StatusBadGateway, utils.ErrJSON("API 응답을 파싱할 수 없습니다"))
	}

	log.Error("video analysis failed", "error", err)
	return c.JSON(http.StatusInternalServerError, utils.ErrJSON("비디오 분석 중 오류가 발생했습니다."))
}
