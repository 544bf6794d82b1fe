package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Metrics agrupa los colectores del servicio sobre un registry propio, no el global.
type Metrics struct {
	Registry *prometheus.Registry

	analyses *prometheus.CounterVec
	duration *prometheus.HistogramVec
	columns  prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdp_analyses_total",
			Help: "Total analyses served, by analysis method",
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdp_analysis_duration_seconds",
			Help:    "Analysis latency, by analysis method",
			Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		columns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cdp_recommended_columns",
			Help:    "Number of recommended columns per analysis",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
	}
	reg.MustRegister(
		m.analyses,
		m.duration,
		m.columns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnalysis es seguro con receptor nil para que el servicio funcione sin métricas.
func (m *Metrics) ObserveAnalysis(method string, elapsed time.Duration, columns int) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(method).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	m.columns.Observe(float64(columns))
}

// MethodCounter lee del historial persistido cuántos análisis hay por método.
type MethodCounter interface {
	CountByMethod(ctx context.Context) (map[string]int64, error)
}

var storedAnalysesDesc = prometheus.NewDesc(
	"cdp_stored_analyses",
	"Analyses persisted in the analysis log, by analysis method",
	[]string{"method"},
	nil,
)

// LogCollector consulta la base en cada scrape.
type LogCollector struct {
	counter MethodCounter
	logger  *zap.Logger
}

func NewLogCollector(counter MethodCounter, logger *zap.Logger) *LogCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogCollector{counter: counter, logger: logger}
}

func (c *LogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- storedAnalysesDesc
}

func (c *LogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	counts, err := c.counter.CountByMethod(ctx)
	if err != nil {
		c.logger.Warn("failed to collect analysis log metrics", zap.Error(err))
		return
	}
	for method, n := range counts {
		ch <- prometheus.MustNewConstMetric(storedAnalysesDesc, prometheus.GaugeValue, float64(n), method)
	}
}

// RegisterLogCollector se llama sólo cuando hay base configurada.
func (m *Metrics) RegisterLogCollector(counter MethodCounter, logger *zap.Logger) error {
	if m == nil || counter == nil {
		return nil
	}
	return m.Registry.Register(NewLogCollector(counter, logger))
}
