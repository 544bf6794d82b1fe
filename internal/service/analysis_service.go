package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cdp-query/internal/domain"
	"cdp-query/internal/llm"
	"cdp-query/internal/metrics"
	"cdp-query/internal/repository"
)

var (
	ErrEmptyQuery   = errors.New("empty query")
	ErrQueryTooLong = errors.New("query too long")
	ErrRateLimited  = errors.New("rate limited")
)

const defaultMaxQueryLength = 500

// AnalysisOptions agrupa las dependencias opcionales; cualquier campo nil se omite.
type AnalysisOptions struct {
	Cache          ResultCache
	Limiter        RateLimiter
	Logs           repository.AnalysisLogRepository
	Metrics        *metrics.Metrics
	MaxQueryLength int
	LLMTimeout     time.Duration
}

// AnalysisService decide entre LLM y motor de reglas para cada consulta.
type AnalysisService struct {
	engine    FallbackEngine
	llmClient llm.LLMClient
	prompts   CDPPromptBuilder
	parser    LLMResponseParser
	opts      AnalysisOptions
	logger    *zap.Logger
	now       func() time.Time
}

func NewAnalysisService(llmClient llm.LLMClient, logger *zap.Logger, opts AnalysisOptions) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = defaultMaxQueryLength
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 30 * time.Second
	}
	return &AnalysisService{
		engine:    DefaultFallbackEngine,
		llmClient: llmClient,
		prompts:   CDPPromptBuilder{},
		parser:    DefaultLLMResponseParser,
		opts:      opts,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LLMEnabled indica si hay un cliente LLM configurado.
func (s *AnalysisService) LLMEnabled() bool {
	return s.llmClient != nil
}

// Analyze valida la consulta y devuelve siempre un resultado; sólo falla por
// validación o rate limit.
func (s *AnalysisService) Analyze(ctx context.Context, clientKey, query string) (domain.RecommendationResult, error) {
	start := s.now()

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RecommendationResult{}, ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > s.opts.MaxQueryLength {
		return domain.RecommendationResult{}, ErrQueryTooLong
	}
	if s.opts.Limiter != nil && !s.opts.Limiter.Allow(clientKey) {
		return domain.RecommendationResult{}, ErrRateLimited
	}

	result, method, cached := s.resolve(ctx, query)

	elapsed := s.now().Sub(start)
	requestID := uuid.NewString()
	result.Metadata = &domain.AnalysisMetadata{
		RequestID:        requestID,
		AnalysisMethod:   method,
		ProcessingTimeMs: elapsed.Milliseconds(),
		Timestamp:        start,
		Query:            query,
		Cached:           cached,
	}

	s.opts.Metrics.ObserveAnalysis(method, elapsed, len(result.RecommendedColumns))
	s.persist(ctx, result)

	s.logger.Info("analysis completed",
		zap.String("request_id", requestID),
		zap.String("analysis_method", method),
		zap.Bool("cached", cached),
		zap.Int("columns", len(result.RecommendedColumns)),
		zap.Duration("latency", elapsed),
	)
	return result, nil
}

func (s *AnalysisService) resolve(ctx context.Context, query string) (domain.RecommendationResult, string, bool) {
	if s.llmClient == nil {
		return s.engine.Recommend(query), domain.MethodFallbackNoKey, false
	}

	if s.opts.Cache != nil {
		hit, ok, err := s.opts.Cache.Get(ctx, query)
		if err != nil {
			s.logger.Warn("result cache lookup failed", zap.Error(err))
		}
		if ok {
			return hit, domain.MethodLLM, true
		}
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.opts.LLMTimeout)
	defer cancel()

	raw, err := s.llmClient.Generate(llmCtx, s.prompts.BuildAnalysisPrompt(query))
	if err != nil {
		s.logger.Warn("llm call failed, using rule engine", zap.Error(err))
		result := s.engine.Recommend(query)
		result.APIError = err.Error()
		return result, domain.MethodFallbackAfterError, false
	}

	parsed, ok := s.parser.Parse(raw)
	if !ok {
		s.logger.Warn("llm response not parseable, returning degraded result", zap.Int("raw_len", len(raw)))
		return s.parser.DegradedResult(query, raw), domain.MethodLLMDegraded, false
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, query, parsed); err != nil {
			s.logger.Warn("result cache store failed", zap.Error(err))
		}
	}
	return parsed, domain.MethodLLM, false
}

func (s *AnalysisService) persist(ctx context.Context, result domain.RecommendationResult) {
	if s.opts.Logs == nil || result.Metadata == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("marshal analysis log failed", zap.Error(err))
		return
	}
	entry := domain.AnalysisLog{
		ID:             uuid.New(),
		RequestID:      result.Metadata.RequestID,
		Query:          result.Metadata.Query,
		AnalysisMethod: result.Metadata.AnalysisMethod,
		ColumnCount:    len(result.RecommendedColumns),
		ProcessingMs:   result.Metadata.ProcessingTimeMs,
		Result:         payload,
		CreatedAt:      result.Metadata.Timestamp,
	}
	if err := s.opts.Logs.Create(ctx, entry); err != nil {
		s.logger.Warn("persist analysis log failed", zap.String("request_id", entry.RequestID), zap.Error(err))
	}
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// RecentAnalyses devuelve el historial; sin repositorio configurado, lista vacía.
func (s *AnalysisService) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	if s.opts.Logs == nil {
		return []domain.AnalysisLog{}, nil
	}
	logs, err := s.opts.Logs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.AnalysisLog{}
	}
	return logs, nil
}
