package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestNewCollector(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.httpRequestsTotal)
	assert.NotNil(t, collector.generationRequestsTotal)
	assert.NotNil(t, collector.analysisTotal)
	assert.NotNil(t, collector.chatTurnsTotal)
	assert.NotNil(t, collector.deskOperationsTotal)
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordHTTPRequest("GET", "/api/v1/sessions/:id/quote", 200, 100*time.Millisecond, 1024, 2048)
	collector.RecordHTTPRequest("GET", "/api/v1/sessions/:id/quote", 201, 50*time.Millisecond, 512, 1024)
	collector.RecordHTTPRequest("POST", "/api/v1/sessions/:id/analysis", 502, time.Second, 64, 128)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/api/v1/sessions/:id/quote", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("POST", "/api/v1/sessions/:id/analysis", "5xx")))
}

func TestCollector_ObserveGeneration(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.ObserveGeneration("structured", "gemini-2.5-flash", "ok", 2*time.Second)
	collector.ObserveGeneration("image", "gemini-2.5-flash-image", "UPSTREAM_QUOTA", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.generationRequestsTotal.WithLabelValues("structured", "gemini-2.5-flash", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.generationRequestsTotal.WithLabelValues("image", "gemini-2.5-flash-image", "UPSTREAM_QUOTA")))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.generationRequestDuration))
}

func TestCollector_RecordAnalysisAndChat(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordAnalysis("ok", 3*time.Second)
	collector.RecordAnalysis("SCHEMA", time.Second)
	collector.RecordChatTurn("ok", 500*time.Millisecond)
	collector.RecordDeskOperation("confirm", "rejected")

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.analysisTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.analysisTotal.WithLabelValues("SCHEMA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.chatTurnsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.deskOperationsTotal.WithLabelValues("confirm", "rejected")))
}

func TestCollector_TrackSessions(t *testing.T) {
	ns := nextTestNamespace()
	collector := NewCollector(ns, zap.NewNop())

	var live atomic.Int64
	live.Store(3)
	collector.TrackSessions(func() int { return int(live.Load()) })

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == ns+"_sessions_active" {
			found = true
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found, "sessions gauge not registered")
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				collector.RecordHTTPRequest("GET", "/health", 200, time.Millisecond, 0, 10)
				collector.ObserveGeneration("chat", "gemini-2.5-flash", "ok", time.Millisecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/health", "2xx")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(collector.generationRequestsTotal.WithLabelValues("chat", "gemini-2.5-flash", "ok")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "2xx", statusCode(204))
	assert.Equal(t, "3xx", statusCode(302))
	assert.Equal(t, "4xx", statusCode(409))
	assert.Equal(t, "5xx", statusCode(502))
	assert.Equal(t, "unknown", statusCode(0))
}
