package registry

import "github.com/prometheus/client_golang/prometheus"

// registryMetrics tracks artifact builds per release.
type registryMetrics struct {
	builds        *prometheus.CounterVec
	buildFailures *prometheus.CounterVec
	buildSeconds  *prometheus.HistogramVec
}

func newRegistryMetrics(registerer prometheus.Registerer) (*registryMetrics, error) {
	m := &registryMetrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vismodel",
			Subsystem: "registry",
			Name:      "builds_total",
			Help:      "Total number of model artifacts built",
		}, []string{"artifact", "version"}),
		buildFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vismodel",
			Subsystem: "registry",
			Name:      "build_failures_total",
			Help:      "Total number of model artifact builds that failed",
		}, []string{"artifact", "version"}),
		buildSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vismodel",
			Subsystem: "registry",
			Name:      "build_duration_seconds",
			Help:      "Time spent building model artifacts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"artifact", "version"}),
	}

	collectors := []prometheus.Collector{m.builds, m.buildFailures, m.buildSeconds}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *registryMetrics) observeBuild(artifact, version string, seconds float64, err error) {
	if err != nil {
		m.buildFailures.WithLabelValues(artifact, version).Inc()
		return
	}
	m.builds.WithLabelValues(artifact, version).Inc()
	m.buildSeconds.WithLabelValues(artifact, version).Observe(seconds)
}
