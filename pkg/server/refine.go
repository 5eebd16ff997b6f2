package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"visage/pkg/analysis"
	"visage/pkg/describe"
	"visage/pkg/utils"
)

type refineBody struct {
	APIKey string `json:"apiKey"`
	describe.Request
}

func (s *Server) handlePostRefine(c echo.Context) error {
	var body refineBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("요청 본문을 읽을 수 없습니다."))
	}

	apiKey := body.APIKey
	if apiKey == "" {
		apiKey = c.Request().Header.Get("X-API-Key")
	}
	if apiKey == "" {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("API 키가 필요합니다."))
	}

	inferencer, err := s.NewInferencer(apiKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("분석기 초기화에 실패했습니다."))
	}

	refiner := describe.NewRefiner(inferencer)
	result, err := refiner.Improve(c.Request().Context(), body.Request)
	if err != nil {
		var vErr *analysis.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, utils.ErrJSON(vErr.Error()))
		}
		return s.analysisError(c, err)
	}

	return c.JSON(http.StatusOK, utils.OKJSON(result))
}
