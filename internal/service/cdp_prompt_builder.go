package service

import (
	"fmt"
	"strings"
)

var familyLabels = []struct {
	family ColumnFamily
	label  string
}{
	{FamilyDirectBehavior, "직접 행동 지표 (fa_int_*)"},
	{FamilyIndustryBehavior, "업종별 지표 (fa_ind_*)"},
	{FamilyPredictionScore, "예측 스코어 (sc_*)"},
	{FamilyDemographicFlag, "인구통계학적 플래그 (fi_npay_*)"},
}

// CDPPromptBuilder construye el prompt del analista CDP a partir del catálogo.
type CDPPromptBuilder struct{}

// BuildAnalysisPrompt arma el prompt completo que se envía al LLM.
func (CDPPromptBuilder) BuildAnalysisPrompt(userQuery string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("CDP 고객 분석 전문가로서 \"%s\" 질문에 대해 아래 컬럼 카탈로그만 사용하여 답변해주세요.\n\n", strings.TrimSpace(userQuery)))

	sb.WriteString("=== 사용 가능한 CDP 컬럼 ===\n")
	catalog := ColumnCatalog()
	for _, fl := range familyLabels {
		sb.WriteString("[" + fl.label + "]\n")
		for _, spec := range catalog {
			if spec.Family != fl.family {
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s: %s (%s, %s)\n", spec.ID, spec.Description, spec.DataType, spec.Condition))
		}
	}

	sb.WriteString("\n=== 출력 형식 ===\n")
	sb.WriteString("다음 JSON 형식으로 정확히 답변하고, JSON 외의 텍스트는 포함하지 마세요:\n")
	sb.WriteString(`{
  "query_analysis": "질문 분석 내용",
  "target_description": "타겟 고객 설명",
  "recommended_columns": [
    {
      "column": "컬럼명",
      "description": "컬럼 설명",
      "condition": "조건",
      "priority": "high/medium/low",
      "reasoning": "선택 이유"
    }
  ],
  "sql_query": "SQL 쿼리 (FROM cdp_customer_data)",
  "business_insights": ["인사이트1", "인사이트2"],
  "estimated_target_size": "N-M%",
  "marketing_recommendations": ["추천1", "추천2"]
}`)
	return sb.String()
}
