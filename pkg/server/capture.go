package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"visage/pkg/schema"
	"visage/pkg/utils"
	"visage/pkg/video"
)

func (s *Server) handlePostCaptureFrame(c echo.Context) error {
	filePath, _, err := s.saveUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(err.Error()))
	}
	defer os.Remove(filePath)

	frameNumber, err := strconv.Atoi(c.FormValue("frameNumber"))
	if err != nil || frameNumber < 0 {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("frameNumber는 0 이상의 정수여야 합니다."))
	}

	fps, _ := strconv.ParseFloat(c.FormValue("fps"), 64)
	if fps <= 0 {
		fps = 30
	}

	box, hasBox := parseBox(c)
	drawOverlay := c.FormValue("drawOverlay") == "true"

	framePath, err := s.Frames.Capture(c.Request().Context(), video.CaptureRequest{
		VideoPath:   filePath,
		FrameNumber: frameNumber,
		FPS:         fps,
	})
	if err != nil {
		log.Error("frame capture failed", "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("프레임 캡처 중 오류가 발생했습니다."))
	}
	defer s.Frames.Delete(framePath)

	img, err := video.LoadImage(framePath)
	if err != nil {
		log.Error("captured frame unreadable", "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("프레임 캡처 중 오류가 발생했습니다."))
	}
	if drawOverlay && hasBox {
		img = video.DrawBox(img, box)
	}

	encoded, err := video.EncodeWebP(img)
	if err != nil {
		log.Error("frame encoding failed", "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("프레임 캡처 중 오류가 발생했습니다."))
	}

	data := map[string]any{
		"frameNumber": frameNumber,
		"fps":         fps,
		"image":       "data:image/webp;base64," + base64.StdEncoding.EncodeToString(encoded),
		"resolution":  fmt.Sprintf("%dx%d", video.TargetWidth, video.TargetHeight),
	}
	if hasBox {
		data["bbox"] = box[:]
	}
	return c.JSON(http.StatusOK, utils.OKJSON(data))
}

// parseBox reads the optional two-corner bounding box form fields. All four
// coordinates must be present for the box to count.
func parseBox(c echo.Context) ([2]schema.Point, bool) {
	coords := [4]int{}
	for i, field := range []string{"bbox1X", "bbox1Y", "bbox2X", "bbox2Y"} {
		v, err := strconv.Atoi(c.FormValue(field))
		if err != nil {
			return [2]schema.Point{}, false
		}
		coords[i] = v
	}
	return [2]schema.Point{
		{X: coords[0], Y: coords[1]},
		{X: coords[2], Y: coords[3]},
	}, true
}
