package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfResolution is perf metric
	PerfResolution = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_p11_resolve",
		Help:         "perf_p11_resolve provides the sample metrics of URI resolution",
		RequiredTags: []string{"action"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfResolution,
}
