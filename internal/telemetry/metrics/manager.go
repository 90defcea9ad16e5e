package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterIndexComputed       *prometheus.CounterVec
	CounterCalibration         prometheus.Counter
	CounterMissingData         *prometheus.CounterVec
	CounterAnalyses            *prometheus.CounterVec
	CounterAdvice              *prometheus.CounterVec

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramIndexScore      *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("sprintflow", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("sprintflow", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterIndexComputed := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "index_computed",
		Help:      "The total number of computed indices, per index kind",
	}, []string{"index"})
	counterCalibration := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "form_index_calibration",
		Help:      "The total number of form index requests answered in calibration mode",
	})
	counterMissingData := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "index_missing_data",
		Help:      "The total number of index requests answered with the missing data sentinel",
	}, []string{"index"})
	counterAnalyses := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_analyses",
		Help:      "The total number of workout analyses, per outcome (inserted, updated, skipped)",
	}, []string{"outcome"})
	counterAdvice := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "advice_generated",
		Help:      "The total number of generated advice lists, per generator",
	}, []string{"generator"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramIndexScore := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "index_score",
		Help:      "Distribution of computed 0-100 index scores",
		Buckets:   prometheus.LinearBuckets(10, 10, 9),
	}, []string{"index"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterIndexComputed:       counterIndexComputed,
		CounterCalibration:         counterCalibration,
		CounterMissingData:         counterMissingData,
		CounterAnalyses:            counterAnalyses,
		CounterAdvice:              counterAdvice,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramIndexScore:        histogramIndexScore,
	}
}

// ObserveIndex counts a computed index and records its score.
func (m *Manager) ObserveIndex(index string, score int) {
	if m == nil {
		return
	}
	m.CounterIndexComputed.WithLabelValues(index).Inc()
	m.HistogramIndexScore.WithLabelValues(index).Observe(float64(score))
}
