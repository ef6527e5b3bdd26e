package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pscheid92/waitlist/internal/platform/version"
)

const namespace = "waitlist"

// NewRegistry creates a registry with Go runtime and process collectors and a
// constant build_info series naming the version and the sheet backend in use.
func NewRegistry(backend string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(newBuildInfo(version.Get(), backend))
	return reg
}

func newBuildInfo(info version.Info, backend string) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build and backend information; always 1",
		ConstLabels: prometheus.Labels{
			"version":       info.Version,
			"commit":        info.Commit,
			"go_version":    info.GoVersion,
			"sheet_backend": backend,
		},
	}, func() float64 { return 1 })
}

// Handler serves the registry. Scrape failures are counted on the same registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
