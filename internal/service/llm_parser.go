package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"cdp-query/internal/domain"
)

// LLMResponseParser centraliza la lógica de limpieza y parseo de respuestas del LLM.
type LLMResponseParser struct{}

// DefaultLLMResponseParser permite uso directo sin instanciar.
var DefaultLLMResponseParser = LLMResponseParser{}

var (
	fenceStartRe = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEndRe   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

const rawPreviewRunes = 100

// Parse intenta decodificar el JSON de recomendación. ok=false si el texto no
// contiene un payload utilizable.
func (LLMResponseParser) Parse(raw string) (domain.RecommendationResult, bool) {
	cleaned := cleanLLMJSONResponse(raw)

	candidates := []string{extractFirstJSONObject(cleaned), cleaned}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		var out domain.RecommendationResult
		if err := json.Unmarshal([]byte(candidate), &out); err != nil {
			continue
		}
		if len(out.RecommendedColumns) == 0 && strings.TrimSpace(out.SQLQuery) == "" {
			continue
		}
		// Los campos internos nunca vienen del modelo.
		out.APIError = ""
		out.LLMResponse = ""
		out.Metadata = nil
		return normalizeLLMResult(out), true
	}
	return domain.RecommendationResult{}, false
}

// normalizeLLMResult aplica a la salida del modelo los mismos topes que al motor de reglas.
func normalizeLLMResult(r domain.RecommendationResult) domain.RecommendationResult {
	if r.RecommendedColumns == nil {
		r.RecommendedColumns = []domain.ColumnDescriptor{}
	}
	if len(r.RecommendedColumns) > maxRecommendedColumns {
		r.RecommendedColumns = r.RecommendedColumns[:maxRecommendedColumns]
	}
	r.BusinessInsights = capStrings(r.BusinessInsights, maxInsights)
	r.MarketingRecommendations = capStrings(r.MarketingRecommendations, maxMarketingRecs)
	return r
}

func capStrings(in []string, limit int) []string {
	if in == nil {
		return []string{}
	}
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

// DegradedResult envuelve texto no parseable en un resultado mínimo válido.
func (LLMResponseParser) DegradedResult(query, raw string) domain.RecommendationResult {
	preview := raw
	if utf8.RuneCountInString(preview) > rawPreviewRunes {
		preview = string([]rune(preview)[:rawPreviewRunes])
	}
	return domain.RecommendationResult{
		QueryAnalysis:     fmt.Sprintf("\"%s\"에 대한 AI 분석이 완료되었습니다.", query),
		TargetDescription: "분석된 고객 세그먼트",
		RecommendedColumns: []domain.ColumnDescriptor{
			baseColumn("AI 분석 결과 추천된 핵심 지표입니다."),
		},
		SQLQuery: "SELECT mbr_id_no, sc_int_highincome FROM cdp_customer_data WHERE sc_int_highincome > 0.7;",
		BusinessInsights: []string{
			"AI 분석을 통해 도출된 비즈니스 인사이트입니다.",
			preview + "...",
		},
		EstimatedTargetSize:      "10-15%",
		MarketingRecommendations: []string{"AI 추천 마케팅 전략을 적용하세요."},
		LLMResponse:              raw,
	}
}

// cleanLLMJSONResponse deja sólo el cuerpo: sin BOM ni bloque de código markdown.
func cleanLLMJSONResponse(raw string) string {
	body := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	for _, re := range []*regexp.Regexp{fenceStartRe, fenceEndRe} {
		body = re.ReplaceAllString(body, "")
	}
	return strings.TrimSpace(body)
}

// extractFirstJSONObject corta el texto en el cierre del primer objeto de
// nivel superior. Las llaves dentro de strings JSON no cuentan. "" si no cierra.
func extractFirstJSONObject(input string) string {
	open := strings.IndexByte(input, '{')
	if open < 0 {
		return ""
	}

	depth := 0
	for i := open; i < len(input); i++ {
		switch input[i] {
		case '"':
			i = skipJSONString(input, i)
		case '{':
			depth++
		case '}':
			if depth--; depth == 0 {
				return input[open : i+1]
			}
		}
	}
	return ""
}

// skipJSONString devuelve el índice de la comilla que cierra el string que
// empieza en start, o el final del texto si nunca cierra.
func skipJSONString(input string, start int) int {
	for i := start + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(input)
}
