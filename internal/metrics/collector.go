// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	namespace string

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 生成请求指标
	generationRequestsTotal   *prometheus.CounterVec
	generationRequestDuration *prometheus.HistogramVec

	// 分析指标
	analysisTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram

	// 客服对话指标
	chatTurnsTotal   *prometheus.CounterVec
	chatTurnDuration prometheus.Histogram

	// 报价草稿操作
	deskOperationsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		namespace: namespace,
		logger:    logger.With(zap.String("component", "metrics")),
	}

	// HTTP 指标
	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// 生成请求指标
	c.generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of model generation requests",
		},
		[]string{"kind", "model", "status"},
	)

	c.generationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Model generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"kind", "model"},
	)

	// 分析指标
	c.analysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_total",
			Help:      "Total number of analysis cycles by outcome",
		},
		[]string{"outcome"},
	)

	c.analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Analysis cycle duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 80, 160},
		},
	)

	// 客服对话指标
	c.chatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Total number of support chat turns by status",
		},
		[]string{"status"},
	)

	c.chatTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_turn_duration_seconds",
			Help:      "Support chat turn duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// 报价草稿操作
	c.deskOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_operations_total",
			Help:      "Total number of quote draft operations",
		},
		[]string{"operation", "outcome"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// TrackSessions 注册活跃会话数 Gauge，每次抓取时调用 count
func (c *Collector) TrackSessions(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      "sessions_active",
			Help:      "Number of live visitor sessions",
		},
		func() float64 { return float64(count()) },
	)
}

// =============================================================================
// 🎯 HTTP 指标记录
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// =============================================================================
// 🤖 生成与分析指标记录
// =============================================================================

// ObserveGeneration 记录一次模型生成请求（实现 gemini.Observer）
func (c *Collector) ObserveGeneration(kind, model, status string, duration time.Duration) {
	c.generationRequestsTotal.WithLabelValues(kind, model, status).Inc()
	c.generationRequestDuration.WithLabelValues(kind, model).Observe(duration.Seconds())
}

// RecordAnalysis 记录一次分析周期（实现 analysis.Recorder）
func (c *Collector) RecordAnalysis(outcome string, duration time.Duration) {
	c.analysisTotal.WithLabelValues(outcome).Inc()
	c.analysisDuration.Observe(duration.Seconds())
}

// RecordChatTurn 记录一次客服对话（实现 chat.Recorder）
func (c *Collector) RecordChatTurn(status string, duration time.Duration) {
	c.chatTurnsTotal.WithLabelValues(status).Inc()
	c.chatTurnDuration.Observe(duration.Seconds())
}

// RecordDeskOperation 记录报价草稿操作
func (c *Collector) RecordDeskOperation(operation, outcome string) {
	c.deskOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusCode 将 HTTP 状态码转换为字符串
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
