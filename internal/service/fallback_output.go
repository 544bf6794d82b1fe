package service

import (
	"fmt"
	"math"
	"strings"

	"cdp-query/internal/domain"
)

const (
	maxInsights        = 5
	maxMarketingRecs   = 6
	defaultWhereClause = "sc_int_highincome > 0.7"
	defaultOrderColumn = highIncomeColumn
)

func queryAnalysis(query string, categories []string) string {
	scope := "전방위적"
	if len(categories) > 1 {
		scope = "다차원적"
	}
	return fmt.Sprintf("\"%s\" - 복합적인 고객 니즈와 라이프스타일을 종합 분석하여 %s 타겟팅 전략을 수립했습니다.", query, scope)
}

func targetDescription(categories []string, demo domain.Demographics) string {
	var b strings.Builder

	var labels []string
	for _, v := range []string{demo.Age, demo.Gender, demo.Income, demo.LifeStage} {
		if v != "" {
			labels = append(labels, v)
		}
	}
	if len(labels) > 0 {
		b.WriteString(strings.Join(labels, " "))
		b.WriteString(" ")
	}
	if len(categories) > 0 {
		b.WriteString(strings.Join(topN(categories, 3), ", "))
		b.WriteString(" 관련 니즈가 높고 ")
	}
	b.WriteString("다층적인 소비 패턴과 라이프스타일을 보이는 종합적 타겟 고객군")
	return b.String()
}

// buildSQL es una plantilla de texto, no un query builder: la forma exacta
// de las cláusulas forma parte del contrato de salida.
func buildSQL(columns []domain.ColumnDescriptor) string {
	names := make([]string, 0, len(columns))
	var conditions []string
	for _, c := range columns {
		names = append(names, c.Column)
		if c.Priority == domain.PriorityHigh {
			conditions = append(conditions, c.Column+" "+c.Condition)
		}
	}

	where := strings.Join(conditions, " OR ")
	if where == "" {
		where = defaultWhereClause
	}
	order := defaultOrderColumn
	if len(columns) > 0 {
		order = columns[0].Column
	}

	return fmt.Sprintf("SELECT mbr_id_no, %s\nFROM cdp_customer_data \nWHERE (%s)\nORDER BY %s DESC\nLIMIT 10000;",
		strings.Join(names, ", "), where, order)
}

func businessInsights(categories []string, demo domain.Demographics, columns []domain.ColumnDescriptor) []string {
	var insights []string

	if len(categories) > 1 {
		insights = append(insights, fmt.Sprintf("%s 영역의 복합적 니즈를 가진 고객군으로 교차 마케팅 기회가 높음", strings.Join(topN(categories, 2), "과 ")))
	}
	if hasColumn(columns, func(id string) bool { return id == highIncomeColumn || id == "fa_int_luxury" }) {
		insights = append(insights, "고소득/프리미엄 성향 고객이 포함되어 있어 높은 LTV(Life Time Value) 기대 가능")
	}
	if demo.LifeStage != "" {
		insights = append(insights, fmt.Sprintf("%s 라이프스테이지 특성상 관련 상품/서비스 니즈가 동반 상승하는 시기", demo.LifeStage))
	}
	if hasColumn(columns, func(id string) bool { return strings.Contains(id, "npay") }) {
		insights = append(insights, "네이버페이 이용 고객으로 디지털 마케팅 채널 활용도가 높고 데이터 트래킹 용이")
	}

	insights = append(insights,
		"다양한 접점에서의 고객 행동 데이터를 바탕으로 한 정밀한 타겟팅 가능",
		"개인화된 상품 추천 및 맞춤형 마케팅 메시지 전달로 전환율 극대화 기대",
	)
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func hasColumn(columns []domain.ColumnDescriptor, match func(id string) bool) bool {
	for _, c := range columns {
		if match(c.Column) {
			return true
		}
	}
	return false
}

// estimateTargetSize parte de 20% y aplica multiplicadores acumulativos,
// luego acota a [2, 35].
func estimateTargetSize(categories []string, demo domain.Demographics) string {
	size := 20.0
	if len(categories) > 2 {
		size *= 0.7
	}
	if len(categories) > 3 {
		size *= 0.6
	}
	if demo.Age != "" {
		size *= 0.8
	}
	if demo.Gender != "" {
		size *= 0.5
	}
	if demo.Income == IncomeHigh {
		size *= 0.3
	}
	size = math.Max(size, 2)
	size = math.Min(size, 35)

	return fmt.Sprintf("%d-%d%%", int(math.Round(size)), int(math.Round(size*1.5)))
}

func marketingRecommendations(categories []string, demo domain.Demographics) []string {
	recs := []string{"네이버 생태계 내 통합 마케팅: 검색, 쇼핑, 페이 연계 캠페인 실행"}

	if len(categories) > 1 {
		recs = append(recs, fmt.Sprintf("%s 복합 니즈 기반 크로스셀링 기회 활용", strings.Join(topN(categories, 2), "+")))
	}
	if demo.LifeStage != "" {
		recs = append(recs, fmt.Sprintf("%s 라이프스테이지에 특화된 시기별 마케팅 캠페인 기획", demo.LifeStage))
	}
	if demo.Income == IncomeHigh {
		recs = append(recs, "VIP 등급 서비스 및 프리미엄 상품 우선 노출 전략")
	}

	recs = append(recs,
		"실시간 행동 데이터 기반 동적 세그먼테이션 및 적응형 메시지 전달",
		"A/B 테스트를 통한 세그먼트별 최적 메시지 및 타이밍 도출",
	)
	if len(recs) > maxMarketingRecs {
		recs = recs[:maxMarketingRecs]
	}
	return recs
}
