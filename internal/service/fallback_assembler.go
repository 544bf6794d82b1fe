package service

import (
	"fmt"
	"strings"

	"cdp-query/internal/domain"
)

const (
	maxRecommendedColumns = 10
	tertiaryColumnGuard   = 8
)

const (
	primaryReasoning   = "%s 관련 핵심 지표로 타겟 고객 식별에 가장 중요한 컬럼입니다."
	secondaryReasoning = "%s 관심도가 높은 고객의 전형적인 특성으로 세분화에 유용합니다."
	tertiaryReasoning  = "%s 관심고객과 상관관계가 높은 라이프스타일 지표로 추가적인 인사이트 도출에 활용됩니다."
	ageReasoning       = "%s 고객의 라이프스타일과 소비 패턴에 맞춘 타겟팅이 가능합니다."
	genderReasoning    = "%s 고객의 선호도와 구매 행동 특성을 반영한 세분화 기준입니다."
	highIncomeReason   = "고소득층 타겟팅으로 마케팅 ROI와 상품 단가 상승을 기대할 수 있습니다."
	baseColumnReason   = "안정적인 소득 기반으로 마케팅 효과가 높을 것으로 예상됩니다."
	baseColumnCond     = "> 0.7"
)

// columnSet acumula columnas sin duplicados, respetando el orden de inserción.
type columnSet struct {
	cols []domain.ColumnDescriptor
	seen map[string]struct{}
}

func newColumnSet() *columnSet {
	return &columnSet{seen: make(map[string]struct{})}
}

func (s *columnSet) has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *columnSet) len() int { return len(s.cols) }

func (s *columnSet) add(col domain.ColumnDescriptor) {
	if s.has(col.Column) {
		return
	}
	s.seen[col.Column] = struct{}{}
	s.cols = append(s.cols, col)
}

// addFromCatalog ignora en silencio las columnas que no están en el catálogo.
func (s *columnSet) addFromCatalog(id string, priority domain.Priority, reasoning string) {
	if s.has(id) {
		return
	}
	spec, ok := LookupColumn(id)
	if !ok {
		return
	}
	s.add(domain.ColumnDescriptor{
		Column:      id,
		Description: spec.Description,
		Condition:   spec.Condition,
		Priority:    priority,
		Reasoning:   reasoning,
	})
}

// AssembleColumns arma la lista de columnas recomendadas por niveles:
// primary (top 2), secondary (top 3), demografía, tertiary (hasta 8),
// override de alto ingreso y recorte final a 10.
func (FallbackEngine) AssembleColumns(categories []string, demo domain.Demographics) []domain.ColumnDescriptor {
	set := newColumnSet()

	for _, cat := range topN(categories, 2) {
		tiers, ok := categoryColumns[cat]
		if !ok {
			continue
		}
		for _, id := range tiers.primary {
			set.addFromCatalog(id, domain.PriorityHigh, fmt.Sprintf(primaryReasoning, cat))
		}
	}

	for _, cat := range topN(categories, 3) {
		tiers, ok := categoryColumns[cat]
		if !ok {
			continue
		}
		for _, id := range tiers.secondary {
			set.addFromCatalog(id, domain.PriorityMedium, fmt.Sprintf(secondaryReasoning, cat))
		}
	}

	if demo.Age != "" {
		set.add(domain.ColumnDescriptor{
			Column:      ageColumn(demo.Age),
			Description: demo.Age + " 연령층",
			Condition:   "= true",
			Priority:    domain.PriorityMedium,
			Reasoning:   fmt.Sprintf(ageReasoning, demo.Age),
		})
	}

	if demo.Gender != "" {
		set.add(domain.ColumnDescriptor{
			Column:      genderColumn(demo.Gender),
			Description: demo.Gender + " 고객",
			Condition:   "= true",
			Priority:    domain.PriorityMedium,
			Reasoning:   fmt.Sprintf(genderReasoning, demo.Gender),
		})
	}

	// El guard se evalúa en cada append, no por categoría.
	if set.len() < tertiaryColumnGuard {
		for _, cat := range topN(categories, 2) {
			tiers, ok := categoryColumns[cat]
			if !ok {
				continue
			}
			for _, id := range tiers.tertiary {
				if set.len() >= tertiaryColumnGuard {
					break
				}
				set.addFromCatalog(id, domain.PriorityLow, fmt.Sprintf(tertiaryReasoning, cat))
			}
		}
	}

	if demo.Income == IncomeHigh && !set.has(highIncomeColumn) {
		spec, _ := LookupColumn(highIncomeColumn)
		set.add(domain.ColumnDescriptor{
			Column:      highIncomeColumn,
			Description: spec.Description,
			Condition:   spec.Condition,
			Priority:    domain.PriorityHigh,
			Reasoning:   highIncomeReason,
		})
	}

	if set.len() == 0 {
		set.add(baseColumn(baseColumnReason))
	}

	cols := set.cols
	if len(cols) > maxRecommendedColumns {
		cols = cols[:maxRecommendedColumns]
	}
	return cols
}

// ageColumn: "30대" -> "fi_npay_age30".
func ageColumn(age string) string {
	return "fi_npay_age" + strings.Replace(age, "대", "", 1)
}

func genderColumn(gender string) string {
	if gender == GenderF {
		return "fi_npay_genderf"
	}
	return "fi_npay_genderm"
}

// baseColumn es la red de seguridad cuando no hay ninguna señal.
func baseColumn(reasoning string) domain.ColumnDescriptor {
	spec, _ := LookupColumn(highIncomeColumn)
	return domain.ColumnDescriptor{
		Column:      highIncomeColumn,
		Description: spec.Description,
		Condition:   baseColumnCond,
		Priority:    domain.PriorityHigh,
		Reasoning:   reasoning,
	}
}
