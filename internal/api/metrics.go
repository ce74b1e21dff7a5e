package api

import (
	"runtime/debug"

	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the API's prometheus collectors
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	buildInfo *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobly_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobly_http_request_duration_seconds",
				Help:    "HTTP request latency by route and method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "jobly_build_info",
				Help: "Build information of the service",
			},
			[]string{"version", "revision", "goversion"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.buildInfo)
	return m
}

// SampleBuildInfo sets the jobly_build_info gauge. It only needs to be called
// once, on startup.
func (m *Metrics) SampleBuildInfo() {
	goVersion := "undefined"
	revision := "undefined"

	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				revision = setting.Value
			}
		}
	}

	m.buildInfo.With(prometheus.Labels{
		"version":   engine.Version,
		"revision":  revision,
		"goversion": goVersion,
	}).Set(1.0)
}
