package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"

	"cdp-query/internal/domain"
)

func columnIDs(cols []domain.ColumnDescriptor) []string {
	ids := make([]string, 0, len(cols))
	for _, c := range cols {
		ids = append(ids, c.Column)
	}
	return ids
}

func containsID(cols []domain.ColumnDescriptor, id string) bool {
	for _, c := range cols {
		if c.Column == id {
			return true
		}
	}
	return false
}

func TestExtractSignals_GolfWomanThirties(t *testing.T) {
	engine := FallbackEngine{}

	cats, demo := engine.ExtractSignals("30대 여성 골프 좋아해요")
	if len(cats) == 0 || cats[0] != CategoryGolf {
		t.Fatalf("expected golf as top category, got %v", cats)
	}
	if demo.Age != "30대" || demo.Gender != GenderF {
		t.Fatalf("expected 30대/여성, got %+v", demo)
	}
	if demo.Income != "" || demo.LifeStage != "" {
		t.Fatalf("expected income and lifestage unset, got %+v", demo)
	}
}

func TestExtractSignals_RanksByScoreThenDeclarationOrder(t *testing.T) {
	engine := FallbackEngine{}

	cats, _ := engine.ExtractSignals("골프 대출")
	if strings.Join(cats, ",") != "대출,골프" {
		t.Fatalf("expected declaration order on ties, got %v", cats)
	}

	cats, _ = engine.ExtractSignals("골프 라운딩 필드 대출")
	if strings.Join(cats, ",") != "골프,대출" {
		t.Fatalf("expected higher score first, got %v", cats)
	}
}

func TestExtractSignals_FirstMatchWinsPerDimension(t *testing.T) {
	engine := FallbackEngine{}

	_, demo := engine.ExtractSignals("직장인 워킹맘")
	if demo.Age != "30대" {
		t.Fatalf("expected 30대, got %q", demo.Age)
	}
	if demo.Gender != GenderF {
		t.Fatalf("expected first gender group to win, got %q", demo.Gender)
	}
}

func TestExtractSignals_NoMatches(t *testing.T) {
	engine := FallbackEngine{}

	for _, q := range []string{"", "xyz", "   "} {
		cats, demo := engine.ExtractSignals(q)
		if len(cats) != 0 {
			t.Fatalf("expected no categories for %q, got %v", q, cats)
		}
		if !demo.IsEmpty() {
			t.Fatalf("expected empty demographics for %q, got %+v", q, demo)
		}
	}
}

func TestExtractSignals_DecomposedHangul(t *testing.T) {
	engine := FallbackEngine{}

	cats, _ := engine.ExtractSignals(norm.NFD.String("대출 문의"))
	if len(cats) == 0 || cats[0] != CategoryLoan {
		t.Fatalf("expected loan from NFD input, got %v", cats)
	}
}

func TestRecommend_GolfScenario(t *testing.T) {
	res := DefaultFallbackEngine.Recommend("30대 여성 골프 좋아해요")

	for _, id := range []string{"fa_int_golf", "sc_int_golf", "fi_npay_age30", "fi_npay_genderf"} {
		if !containsID(res.RecommendedColumns, id) {
			t.Fatalf("expected column %s, got %v", id, columnIDs(res.RecommendedColumns))
		}
	}

	want := "fa_int_golf,sc_int_golf,sc_int_highincome,fa_int_luxury,fi_npay_age30,fi_npay_genderf,fi_npay_genderm,fa_ind_finance"
	if got := strings.Join(columnIDs(res.RecommendedColumns), ","); got != want {
		t.Fatalf("unexpected column order:\n got %s\nwant %s", got, want)
	}

	wantSQL := "SELECT mbr_id_no, fa_int_golf, sc_int_golf, sc_int_highincome, fa_int_luxury, fi_npay_age30, fi_npay_genderf, fi_npay_genderm, fa_ind_finance\n" +
		"FROM cdp_customer_data \n" +
		"WHERE (fa_int_golf IS NOT NULL OR sc_int_golf > 0.7)\n" +
		"ORDER BY fa_int_golf DESC\n" +
		"LIMIT 10000;"
	if res.SQLQuery != wantSQL {
		t.Fatalf("unexpected sql:\n%s", res.SQLQuery)
	}

	if res.EstimatedTargetSize != "8-12%" {
		t.Fatalf("expected 8-12%%, got %s", res.EstimatedTargetSize)
	}
	if !strings.HasPrefix(res.TargetDescription, "30대 여성 골프 관련 니즈가 높고 ") {
		t.Fatalf("unexpected target description: %s", res.TargetDescription)
	}
	if len(res.BusinessInsights) != 4 {
		t.Fatalf("expected 4 insights, got %d: %v", len(res.BusinessInsights), res.BusinessInsights)
	}
	if !strings.Contains(res.QueryAnalysis, "전방위적") {
		t.Fatalf("expected single-category analysis wording, got %s", res.QueryAnalysis)
	}
}

func TestRecommend_LoanScenario(t *testing.T) {
	res := DefaultFallbackEngine.Recommend("대출 받고 싶어요")

	first := res.RecommendedColumns[0]
	switch first.Column {
	case "fa_int_loan1stfinancial", "fa_int_loanpersonal", "sc_int_loan1stfinancial":
	default:
		t.Fatalf("unexpected first column %s", first.Column)
	}
	if first.Priority != domain.PriorityHigh {
		t.Fatalf("expected high priority, got %s", first.Priority)
	}
	if !strings.Contains(first.Reasoning, CategoryLoan) {
		t.Fatalf("expected reasoning to mention category, got %s", first.Reasoning)
	}
	if len(res.RecommendedColumns) != tertiaryColumnGuard {
		t.Fatalf("expected tertiary pass to stop at %d, got %d", tertiaryColumnGuard, len(res.RecommendedColumns))
	}
}

func TestRecommend_NoSignalFallsBackToBaseColumn(t *testing.T) {
	res := DefaultFallbackEngine.Recommend("xyz")

	if len(res.RecommendedColumns) != 1 || res.RecommendedColumns[0].Column != highIncomeColumn {
		t.Fatalf("expected base high income column, got %v", columnIDs(res.RecommendedColumns))
	}
	if !strings.Contains(res.SQLQuery, "WHERE (sc_int_highincome > 0.7)") {
		t.Fatalf("expected default where clause, got %s", res.SQLQuery)
	}
	if res.EstimatedTargetSize != "20-30%" {
		t.Fatalf("expected 20-30%%, got %s", res.EstimatedTargetSize)
	}
	if res.TargetDescription != "다층적인 소비 패턴과 라이프스타일을 보이는 종합적 타겟 고객군" {
		t.Fatalf("unexpected target description: %s", res.TargetDescription)
	}
}

func TestRecommend_FourCategoriesCompoundsAndTruncates(t *testing.T) {
	res := DefaultFallbackEngine.Recommend("대출 뷰티 여행 골프")

	if res.EstimatedTargetSize != "8-13%" {
		t.Fatalf("expected 0.7*0.6 compounding to give 8-13%%, got %s", res.EstimatedTargetSize)
	}
	if len(res.RecommendedColumns) != maxRecommendedColumns {
		t.Fatalf("expected %d columns, got %d", maxRecommendedColumns, len(res.RecommendedColumns))
	}
	if res.RecommendedColumns[9].Column != "fi_npay_genderf" {
		t.Fatalf("expected truncation to keep accumulation order, got %v", columnIDs(res.RecommendedColumns))
	}
	if len(res.BusinessInsights) != maxInsights {
		t.Fatalf("expected %d insights, got %d", maxInsights, len(res.BusinessInsights))
	}
	if res.BusinessInsights[0] != "대출과 뷰티 영역의 복합적 니즈를 가진 고객군으로 교차 마케팅 기회가 높음" {
		t.Fatalf("unexpected first insight: %s", res.BusinessInsights[0])
	}
	if res.BusinessInsights[4] != "개인화된 상품 추천 및 맞춤형 마케팅 메시지 전달로 전환율 극대화 기대" {
		t.Fatalf("expected both closing sentences with three conditional insights, got %v", res.BusinessInsights)
	}
	if res.MarketingRecommendations[1] != "대출+뷰티 복합 니즈 기반 크로스셀링 기회 활용" {
		t.Fatalf("unexpected cross-sell recommendation: %v", res.MarketingRecommendations)
	}
}

func TestBusinessInsights_ClosingSentenceTruncated(t *testing.T) {
	res := DefaultFallbackEngine.Recommend("대출 뷰티 결혼 웨딩")

	if len(res.BusinessInsights) != maxInsights {
		t.Fatalf("expected %d insights, got %d: %v", maxInsights, len(res.BusinessInsights), res.BusinessInsights)
	}
	if !strings.Contains(res.BusinessInsights[2], "신혼 라이프스테이지") {
		t.Fatalf("expected lifestage insight, got %v", res.BusinessInsights)
	}
	if res.BusinessInsights[4] != "다양한 접점에서의 고객 행동 데이터를 바탕으로 한 정밀한 타겟팅 가능" {
		t.Fatalf("expected first closing sentence last, got %v", res.BusinessInsights)
	}
	for _, ins := range res.BusinessInsights {
		if strings.HasPrefix(ins, "개인화된 상품 추천") {
			t.Fatalf("expected last closing sentence pushed out, got %v", res.BusinessInsights)
		}
	}
}

func TestAssembleColumns_HighIncomeOverride(t *testing.T) {
	engine := FallbackEngine{}

	cats, demo := engine.ExtractSignals("명품 뷰티 화장품 메이크업 네일")
	if demo.Income != IncomeHigh {
		t.Fatalf("expected high income, got %+v", demo)
	}
	cols := engine.AssembleColumns(cats, demo)
	last := cols[len(cols)-1]
	if last.Column != highIncomeColumn || last.Priority != domain.PriorityHigh {
		t.Fatalf("expected high income override appended last, got %+v", last)
	}
	if last.Condition != "> 0.8" {
		t.Fatalf("expected catalog condition, got %s", last.Condition)
	}
}

func TestAssembleColumns_UnknownCategorySkipped(t *testing.T) {
	cols := FallbackEngine{}.AssembleColumns([]string{"없는카테고리", CategoryLifestyle}, domain.Demographics{})
	if len(cols) != 1 || cols[0].Column != highIncomeColumn {
		t.Fatalf("expected only base column, got %v", columnIDs(cols))
	}
}

func TestAssembleColumns_AgeFiftiesFlag(t *testing.T) {
	cols := FallbackEngine{}.AssembleColumns(nil, domain.Demographics{Age: "50대"})
	if len(cols) != 1 || cols[0].Column != "fi_npay_age50" {
		t.Fatalf("expected fi_npay_age50, got %v", columnIDs(cols))
	}
	if cols[0].Description != "50대 연령층" {
		t.Fatalf("unexpected description %q", cols[0].Description)
	}
}

func TestBuildSQL_DefaultsWithoutHighPriority(t *testing.T) {
	sql := buildSQL([]domain.ColumnDescriptor{
		{Column: "fi_npay_genderf", Condition: "= true", Priority: domain.PriorityMedium},
	})
	want := "SELECT mbr_id_no, fi_npay_genderf\nFROM cdp_customer_data \nWHERE (sc_int_highincome > 0.7)\nORDER BY fi_npay_genderf DESC\nLIMIT 10000;"
	if sql != want {
		t.Fatalf("unexpected sql:\n%s", sql)
	}

	if got := buildSQL(nil); !strings.Contains(got, "ORDER BY sc_int_highincome DESC") {
		t.Fatalf("expected default order column, got %s", got)
	}
}

func TestEstimateTargetSize_ClampsToMinimum(t *testing.T) {
	cats := []string{CategoryLoan, CategoryBeauty, CategoryTravel, CategoryGolf}
	demo := domain.Demographics{Age: "30대", Gender: GenderF, Income: IncomeHigh}
	if got := estimateTargetSize(cats, demo); got != "2-3%" {
		t.Fatalf("expected clamp to 2-3%%, got %s", got)
	}
}

var sizePattern = regexp.MustCompile(`^(\d+)-(\d+)%$`)

func TestRecommend_StructuralInvariants(t *testing.T) {
	queries := []string{
		"30대 여성 골프 좋아해요",
		"대출 받고 싶어요",
		"xyz",
		"대출 뷰티 여행 골프",
		"신혼 부부 아파트 전세 대출 결혼 웨딩 드레스",
		"40대 남성 프리미엄 골프 여행 투자 주식 펀드 명품",
		"육아 중인 워킹맘 아기 쇼핑 배달 할인",
		"20대 대학생 운동 헬스 요가 영화 음악 취미",
		"50대 시니어 은퇴 노후 자산 재테크 예금",
		"자동차 렌트 주차 주유 리스 해외 항공 호텔",
	}

	for _, q := range queries {
		res := DefaultFallbackEngine.Recommend(q)

		if len(res.RecommendedColumns) == 0 || len(res.RecommendedColumns) > maxRecommendedColumns {
			t.Fatalf("%q: column count out of bounds: %d", q, len(res.RecommendedColumns))
		}
		seen := map[string]bool{}
		for _, c := range res.RecommendedColumns {
			if seen[c.Column] {
				t.Fatalf("%q: duplicate column %s", q, c.Column)
			}
			seen[c.Column] = true
		}
		if len(res.BusinessInsights) > maxInsights {
			t.Fatalf("%q: too many insights: %d", q, len(res.BusinessInsights))
		}
		if len(res.MarketingRecommendations) > maxMarketingRecs {
			t.Fatalf("%q: too many marketing recommendations: %d", q, len(res.MarketingRecommendations))
		}
		m := sizePattern.FindStringSubmatch(res.EstimatedTargetSize)
		if m == nil {
			t.Fatalf("%q: unexpected size format %q", q, res.EstimatedTargetSize)
		}
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo < 2 || lo > 35 {
			t.Fatalf("%q: lower bound out of range: %d", q, lo)
		}
		if diff := float64(hi) - float64(lo)*1.5; diff < -1.5 || diff > 1.5 {
			t.Fatalf("%q: upper bound %d not ~1.5x of %d", q, hi, lo)
		}
		if !strings.HasPrefix(res.SQLQuery, "SELECT mbr_id_no, ") || !strings.HasSuffix(res.SQLQuery, "LIMIT 10000;") {
			t.Fatalf("%q: malformed sql %q", q, res.SQLQuery)
		}
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	q := "40대 남성 프리미엄 골프 여행 투자"
	first, err := json.Marshal(DefaultFallbackEngine.Recommend(q))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(DefaultFallbackEngine.Recommend(q))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output across calls")
	}
}

func TestColumnCatalog_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, spec := range ColumnCatalog() {
		if seen[spec.ID] {
			t.Fatalf("duplicate catalog id %s", spec.ID)
		}
		seen[spec.ID] = true
	}
	for cat, tiers := range categoryColumns {
		for _, list := range [][]string{tiers.primary, tiers.secondary, tiers.tertiary} {
			for _, id := range list {
				if _, ok := LookupColumn(id); !ok {
					t.Fatalf("category %s references unknown column %s", cat, id)
				}
			}
		}
	}
}
