package service

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"cdp-query/internal/domain"
)

// normalizeQuery baja a minúsculas y recompone a NFC, así el Hangul
// descompuesto (NFD) sigue coincidiendo con las tablas precompuestas.
func normalizeQuery(q string) string {
	return norm.NFC.String(strings.ToLower(q))
}

func countMatches(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}

// firstMatch recorre los grupos en orden y devuelve el primero con alguna coincidencia.
func firstMatch(s string, groups []keywordGroup) string {
	for _, g := range groups {
		if countMatches(s, g.keywords) > 0 {
			return g.name
		}
	}
	return ""
}

// ExtractSignals puntúa las categorías de interés y deduce la demografía.
// Las categorías sin coincidencias se descartan; los empates conservan el
// orden de declaración de la tabla.
func (FallbackEngine) ExtractSignals(query string) ([]string, domain.Demographics) {
	q := normalizeQuery(query)

	type scored struct {
		name  string
		score int
	}
	var ranked []scored
	for _, g := range interestKeywords {
		if n := countMatches(q, g.keywords); n > 0 {
			ranked = append(ranked, scored{name: g.name, score: n})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	categories := make([]string, 0, len(ranked))
	for _, r := range ranked {
		categories = append(categories, r.name)
	}
	return categories, inferDemographics(q)
}

func inferDemographics(q string) domain.Demographics {
	return domain.Demographics{
		Age:       firstMatch(q, agePatterns),
		Gender:    firstMatch(q, genderPatterns),
		Income:    firstMatch(q, incomePatterns),
		LifeStage: firstMatch(q, lifeStagePatterns),
	}
}

func topN(categories []string, n int) []string {
	if len(categories) > n {
		return categories[:n]
	}
	return categories
}
