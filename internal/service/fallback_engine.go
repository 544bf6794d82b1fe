package service

import "cdp-query/internal/domain"

// FallbackEngine es el recomendador basado en reglas que se usa cuando el LLM
// no está disponible o falla. No tiene estado: todas las tablas son estáticas.
type FallbackEngine struct{}

// DefaultFallbackEngine permite uso directo sin instanciar.
var DefaultFallbackEngine = FallbackEngine{}

// Recommend ejecuta el pipeline completo: señales -> columnas -> artefactos derivados.
func (e FallbackEngine) Recommend(query string) domain.RecommendationResult {
	categories, demo := e.ExtractSignals(query)
	columns := e.AssembleColumns(categories, demo)

	return domain.RecommendationResult{
		QueryAnalysis:            queryAnalysis(query, categories),
		TargetDescription:        targetDescription(categories, demo),
		RecommendedColumns:       columns,
		SQLQuery:                 buildSQL(columns),
		BusinessInsights:         businessInsights(categories, demo, columns),
		EstimatedTargetSize:      estimateTargetSize(categories, demo),
		MarketingRecommendations: marketingRecommendations(categories, demo),
	}
}
