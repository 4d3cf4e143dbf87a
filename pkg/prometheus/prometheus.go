package prometheus

import (
	"net/http"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler serves the runtime collectors, the counters and histograms of
// the service and the given extra collectors on a dedicated registry.
func NewHandler(extra ...prometheus.Collector) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	for _, counter := range common.PromCounters {
		registry.MustRegister(counter)
	}

	for _, histogram := range common.PromHistograms {
		registry.MustRegister(histogram)
	}

	registry.MustRegister(extra...)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// NewGauge reports the value returned by fn at every scrape. A failing fn
// reports -1.
func NewGauge(name, help string, fn func() (float64, error)) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
		value, err := fn()
		if err != nil {
			return -1
		}

		return value
	})
}
