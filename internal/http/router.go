package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cdp-query/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// metricsHandler puede ser nil si no se exponen métricas.
func NewRouter(
	logger *zap.Logger,
	analyzeH *AnalyzeHandler,
	tokens *service.TokenService,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/health", analyzeH.Health)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("/api", jsonContentTypeMiddleware())
	api.GET("/debug", analyzeH.Debug)
	api.GET("/test-llm", analyzeH.TestLLM)

	guarded := api.Group("", TokenAuthMiddleware(tokens))
	guarded.POST("/analyze", analyzeH.Analyze)
	guarded.GET("/analyses", analyzeH.ListAnalyses)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
