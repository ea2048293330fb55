package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sizingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_sizing_total",
			Help: "Position-size computations by resulting lot class",
		},
		[]string{"pair", "lot_class"},
	)

	pnlTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_pnl_total",
			Help: "Trade P/L computations by outcome (defined or undefined)",
		},
		[]string{"outcome"},
	)

	storeOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_store_operations_total",
			Help: "Record store operations by op and result",
		},
		[]string{"op", "result"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradejournal_store_duration_seconds",
			Help:    "Record store latency",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradejournal_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	cacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_calc_state_total",
			Help: "Calculator state cache lookups by result (hit, miss, expired, error)",
		},
		[]string{"result"},
	)
)

func RecordSizing(pair, lotClass string) {
	sizingTotal.WithLabelValues(pair, lotClass).Inc()
}

func RecordPnL(defined bool) {
	outcome := "undefined"
	if defined {
		outcome = "defined"
	}
	pnlTotal.WithLabelValues(outcome).Inc()
}

// ObserveStore records one store call started at start.
func ObserveStore(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOps.WithLabelValues(op, result).Inc()
	storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func RecordCache(result string) {
	cacheOps.WithLabelValues(result).Inc()
}
