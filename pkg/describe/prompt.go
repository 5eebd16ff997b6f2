package describe

import (
	"strings"

	"visage/pkg/schema"
	"visage/pkg/utils"
)

const refineSystem = "당신은 한국어 문장 교정 전문가입니다. 비디오 분석 결과의 설명문을 자연스럽고 문법적으로 올바른 한국어로 개선합니다. 반드시 JSON만 출력하세요."

// buildPrompt renders the refinement instruction. The classifications are
// included read-only so the model can substitute {{CategoryKey}} template
// variables with the chosen labels.
func buildPrompt(classType []schema.ClassEntry, items []schema.DescriptionItem) string {
	var b strings.Builder

	b.WriteString("다음은 비디오 분석으로 생성된 카테고리 분류와 5가지 설명문입니다. 설명문을 검토하고 개선해주세요.\n\n")

	b.WriteString("**카테고리 분류 (class_type) - 변경 금지:**\n")
	b.WriteString(utils.PrettyJSON(classType))
	b.WriteString("\n\n**현재 설명문 (subject_description):**\n")
	b.WriteString(utils.PrettyJSON(items))
	b.WriteString("\n\n")

	b.WriteString("**개선 작업:**\n")
	b.WriteString("1. {{Male/Female}}, {{Face}} 같은 템플릿 변수를 class_type의 label 값으로 치환하세요. ")
	b.WriteString("복장은 템플릿 변수 없이 이미 완성된 문장이므로 자연스럽게 개선만 진행하세요.\n")
	b.WriteString("2. 각 문장을 독립적으로 자연스럽고 완성도 있게 수정하세요. ")
	b.WriteString("주어는 각 문장에 명확히 포함하고, 5개 문장을 순서대로 이어 붙였을 때도 자연스러워야 합니다.\n")
	b.WriteString("3. 한국어 조사 규칙을 지키세요: 앞 음절이 자음으로 끝나면 은/이/을, 모음으로 끝나면 는/가/를.\n\n")

	b.WriteString("**중요 규칙:**\n")
	b.WriteString("- category 이름은 변경하지 말 것 (상황, 위치, 얼굴, 복장, 감정)\n")
	b.WriteString("- class_type에서 가져온 핵심 키워드(성별, 얼굴형, 감정 등)는 반드시 유지할 것\n\n")

	b.WriteString("**출력 형식 (JSON만 반환):**\n")
	b.WriteString(`{"subject_description": [{"category": "상황", "description": "개선된 완전한 문장"}, ...]}` + "\n")

	return b.String()
}
