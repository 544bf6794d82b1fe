package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cdp-query/internal/domain"
	"cdp-query/internal/service"
)

const emptyQueryMessage = "질문을 입력해주세요."

// Analyzer es la parte del servicio de análisis que usan los handlers.
type Analyzer interface {
	Analyze(ctx context.Context, clientKey, query string) (domain.RecommendationResult, error)
	RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisLog, error)
}

// Prober corre la verificación de conectividad con el proveedor LLM.
type Prober interface {
	Run(ctx context.Context) service.ProbeResult
}

// RuntimeInfo es la foto de configuración que expone /api/debug.
type RuntimeInfo struct {
	Environment string
	LLMAPIKey   string
	LLMModel    string
	CacheDriver string
	Persistence bool
	AuthEnabled bool
}

// AnalyzeHandler expone el análisis de consultas y los endpoints de diagnóstico.
type AnalyzeHandler struct {
	logger   *zap.Logger
	analyzer Analyzer
	prober   Prober
	info     RuntimeInfo
}

func NewAnalyzeHandler(logger *zap.Logger, analyzer Analyzer, prober Prober, info RuntimeInfo) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{
		logger:   logger,
		analyzer: analyzer,
		prober:   prober,
		info:     info,
	}
}

// Analyze maneja POST /api/analyze.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	// Cuerpo vacío equivale a consulta vacía.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), clientKey(c), req.Query)
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": emptyQueryMessage})
		return
	case errors.Is(err, service.ErrQueryTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "query too long"})
		return
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	case err != nil:
		h.logger.Error("analyze failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not analyze query"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAnalyses maneja GET /api/analyses?limit=N.
func (h *AnalyzeHandler) ListAnalyses(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := h.analyzer.RecentAnalyses(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list analyses failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list analyses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": logs, "count": len(logs)})
}

// Debug maneja GET /api/debug.
func (h *AnalyzeHandler) Debug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":    time.Now().UTC(),
		"environment":  h.info.Environment,
		"hasLLMKey":    h.info.LLMAPIKey != "",
		"apiKeyLength": len(h.info.LLMAPIKey),
		"apiKeyPrefix": service.MaskKey(h.info.LLMAPIKey, 8),
		"model":        h.info.LLMModel,
		"cache":        h.info.CacheDriver,
		"persistence":  h.info.Persistence,
		"authEnabled":  h.info.AuthEnabled,
		"serverStatus": "running",
	})
}

// TestLLM maneja GET /api/test-llm.
func (h *AnalyzeHandler) TestLLM(c *gin.Context) {
	res := h.prober.Run(c.Request.Context())
	if !res.Success {
		h.logger.Warn("llm probe failed", zap.String("step", res.Step), zap.Int("status", res.Status))
	}
	c.JSON(http.StatusOK, res)
}

// Health maneja GET /health.
func (h *AnalyzeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}
