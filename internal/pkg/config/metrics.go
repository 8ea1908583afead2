package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks how a component's configuration was loaded.
type Metrics struct {
	LoadTimestamp    prometheus.Gauge
	ValidationErrors *prometheus.CounterVec
	FallbackActive   prometheus.Gauge
}

// NewMetrics registers <component>_config_* series on the default registry.
func NewMetrics(component string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, component)
}

// NewMetricsWith registers on reg, which lets tests use a private registry.
func NewMetricsWith(reg prometheus.Registerer, component string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoadTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_load_timestamp",
			Help: "Unix time of the last configuration load",
		}),
		ValidationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_config_validation_errors_total",
			Help: "Settings that failed validation and fell back to their default",
		}, []string{"field"}),
		FallbackActive: f.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_fallback_active",
			Help: "1 while any setting is running on its default after a failed load",
		}),
	}
}

// Observe records the outcome of one load pass.
func (m *Metrics) Observe(fallbackFields []string) {
	for _, f := range fallbackFields {
		m.ValidationErrors.WithLabelValues(f).Inc()
	}
	if len(fallbackFields) > 0 {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
	m.LoadTimestamp.SetToCurrentTime()
}
