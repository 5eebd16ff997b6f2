package analysis

import (
	"fmt"
	"strings"

	"visage/pkg/category"
	"visage/pkg/video"
)

// BuildPrompt renders the Korean analysis instruction sent alongside the
// video. When measured metadata is available it is injected so the model
// reports the true frame rate and frame count instead of guessing.
func BuildPrompt(meta *video.Metadata) string {
	var b strings.Builder

	b.WriteString("당신은 영상 분석 전문가입니다. 제공된 영상에서 주인공 한 명을 선정하고 다음 절차로 분석하세요.\n\n")

	b.WriteString("## 분석 절차\n")
	b.WriteString("1. 영상 전체에서 가장 비중 있는 인물(주인공)을 선정합니다.\n")
	b.WriteString("2. 주인공의 특징이 가장 명확하게 드러나는 프레임 번호를 선택합니다.\n")
	b.WriteString("3. 선택한 프레임에서 주인공 얼굴의 코 중심점 픽셀 좌표를 측정합니다. ")
	b.WriteString("코는 얼굴의 가로 정중앙, 세로 중간 약간 위에 있습니다. ")
	b.WriteString("빈 공간이나 다른 인물이 아닌 주인공의 코를 가리키는지 반드시 확인하세요.\n")
	b.WriteString("4. 선택한 프레임을 기준으로 감정의 Valence(-3~+3, 부정~긍정)와 Arousal(-3~+3, 약함~강함)을 정수로 라벨링합니다.\n\n")

	b.WriteString("## 카테고리 분류 (class_type)\n")
	b.WriteString("아래 표의 라벨만 사용하세요. 표에 없는 라벨은 허용되지 않습니다.\n\n")
	for _, key := range category.Keys {
		b.WriteString(fmt.Sprintf("- %s (%s): ", key, category.KoreanNames[key]))
		entries := category.Entries(key)
		for i, entry := range entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s=%d", entry.Label, entry.Class))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## 주인공 묘사 (subject_description)\n")
	b.WriteString("상황, 위치, 얼굴, 복장, 감정의 5개 항목을 각각 한 문장으로 작성합니다. ")
	b.WriteString("복장을 제외한 항목에서는 분류 결과를 {{Male/Female}}, {{Face}} 같은 템플릿 변수로 참조하세요.\n\n")

	b.WriteString("## 출력 형식\n")
	b.WriteString("다음 JSON 객체 하나만 출력하세요. 모든 시간 값은 소수점을 포함한 float 형식이어야 합니다.\n")
	if meta != nil {
		b.WriteString(fmt.Sprintf("메타데이터 필수 사용: fps_used=%g, total_frames=%d (정확한 값)\n", meta.FPS, meta.TotalFrames))
	}
	b.WriteString(`{
  "meta": {
    "frame_number": [주인공 특징이 가장 명확한 프레임 번호],
    "total_frames": [전체 프레임 수],
    "fps_used": [영상 실제 프레임레이트, 기본 30],
    "bbox": {"x": [코 중심 x 픽셀 좌표], "y": [코 중심 y 픽셀 좌표]}
  },
  "VA": {"valence": [정수 -3~+3], "arousal": [정수 -3~+3]},
  "class_type": [{"category": "Male/Female", "class": 2, "label": "여자"}, ...],
  "subject_description": [{"category": "상황", "description": "..."}, ...]
}
`)
	b.WriteString("\n주인공으로 삼을 만한 인물이 영상에 없으면 다음만 출력하세요:\n")
	b.WriteString(`{"error": true, "message": "주인공으로 삼을 만한 인물이 영상에 없습니다."}` + "\n")

	return b.String()
}
