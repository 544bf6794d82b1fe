package domain

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Demographics guarda a lo sumo un valor por dimensión; "" significa sin inferir.
type Demographics struct {
	Age       string `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Income    string `json:"income,omitempty"`
	LifeStage string `json:"lifestage,omitempty"`
}

func (d Demographics) IsEmpty() bool {
	return d.Age == "" && d.Gender == "" && d.Income == "" && d.LifeStage == ""
}

// ColumnDescriptor es la unidad de recomendación: una columna CDP con su filtro.
type ColumnDescriptor struct {
	Column      string   `json:"column"`
	Description string   `json:"description"`
	Condition   string   `json:"condition"`
	Priority    Priority `json:"priority"`
	Reasoning   string   `json:"reasoning"`
}

// RecommendationResult es el artefacto que devuelve /api/analyze.
type RecommendationResult struct {
	QueryAnalysis            string             `json:"query_analysis"`
	TargetDescription        string             `json:"target_description"`
	RecommendedColumns       []ColumnDescriptor `json:"recommended_columns"`
	SQLQuery                 string             `json:"sql_query"`
	BusinessInsights         []string           `json:"business_insights"`
	EstimatedTargetSize      string             `json:"estimated_target_size"`
	MarketingRecommendations []string           `json:"marketing_recommendations"`

	APIError    string            `json:"_apiError,omitempty"`
	LLMResponse string            `json:"_llm_response,omitempty"`
	Metadata    *AnalysisMetadata `json:"_metadata,omitempty"`
}

// Analysis methods reportados en _metadata.
const (
	MethodLLM                = "llm"
	MethodLLMDegraded        = "llm_degraded"
	MethodFallbackNoKey      = "fallback_no_key"
	MethodFallbackAfterError = "fallback_after_error"
)

type AnalysisMetadata struct {
	RequestID        string    `json:"request_id"`
	AnalysisMethod   string    `json:"analysisMethod"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	Timestamp        time.Time `json:"timestamp"`
	Query            string    `json:"query"`
	Cached           bool      `json:"cached,omitempty"`
}

// AnalysisLog es una fila del historial de análisis (nunca datos de clientes).
type AnalysisLog struct {
	ID             uuid.UUID `json:"id"`
	RequestID      string    `json:"request_id"`
	Query          string    `json:"query"`
	AnalysisMethod string    `json:"analysis_method"`
	ColumnCount    int       `json:"column_count"`
	ProcessingMs   int64     `json:"processing_ms"`
	Result         []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
