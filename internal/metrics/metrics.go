package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	subsystem = "idler"

	estimatesAddedTotal   = "estimates_added_total"
	referenceLookupsTotal = "reference_lookups_total"
	exportsTotal          = "exports_total"

	idlerTypeLabel = "idler_type"
	resultLabel    = "result"
	formatLabel    = "format"
)

// Reference lookup outcomes.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

var estimatesAddedMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      estimatesAddedTotal,
		Help:      "number of estimates added to a ledger",
	},
	[]string{idlerTypeLabel},
)

var referenceLookupsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      referenceLookupsTotal,
		Help:      "number of reference table lookups by result",
	},
	[]string{resultLabel},
)

var exportsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      exportsTotal,
		Help:      "number of ledger exports by format",
	},
	[]string{formatLabel},
)

func IncreaseEstimatesAdded(idlerType string) {
	estimatesAddedMetric.With(prometheus.Labels{idlerTypeLabel: idlerType}).Inc()
}

func IncreaseReferenceLookups(result string) {
	referenceLookupsMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func IncreaseExports(format string) {
	exportsMetric.With(prometheus.Labels{formatLabel: format}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(estimatesAddedMetric)
	prometheus.MustRegister(referenceLookupsMetric)
	prometheus.MustRegister(exportsMetric)
}
