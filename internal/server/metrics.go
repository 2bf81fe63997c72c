package server

import (
	"minigames/internal/wshub"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's collectors on a dedicated registry so tests can
// build as many servers as they like.
type Metrics struct {
	Registry     *prometheus.Registry
	RecordsSaved *prometheus.CounterVec
	Requests     *prometheus.CounterVec
	Duration     prometheus.Histogram
}

func NewMetrics(hub *wshub.Hub) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RecordsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minigames_records_saved_total",
			Help: "Game records saved, by game type.",
		}, []string{"game_type"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minigames_http_requests_total",
			Help: "HTTP requests served, by method and status.",
		}, []string{"method", "status"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minigames_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	live := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "minigames_live_clients",
		Help: "Connected live-feed websocket clients.",
	}, func() float64 { return float64(hub.Count()) })

	m.Registry.MustRegister(m.RecordsSaved, m.Requests, m.Duration, live)
	return m
}
