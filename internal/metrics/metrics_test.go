package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncreaseReferenceLookups(t *testing.T) {
	before := testutil.ToFloat64(referenceLookupsMetric.WithLabelValues(LookupMiss))
	IncreaseReferenceLookups(LookupMiss)
	IncreaseReferenceLookups(LookupMiss)
	assert.Equal(t, before+2, testutil.ToFloat64(referenceLookupsMetric.WithLabelValues(LookupMiss)))
}

func TestIncreaseEstimatesAdded(t *testing.T) {
	before := testutil.ToFloat64(estimatesAddedMetric.WithLabelValues("Impact"))
	IncreaseEstimatesAdded("Impact")
	assert.Equal(t, before+1, testutil.ToFloat64(estimatesAddedMetric.WithLabelValues("Impact")))
}
