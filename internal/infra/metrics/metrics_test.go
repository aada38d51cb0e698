package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBulk(t *testing.T) {
	before := testutil.ToFloat64(BulkItems.WithLabelValues("test_edit", "ok"))

	ObserveBulk("test_edit", 3, 1, 2)

	assert.Equal(t, before+3, testutil.ToFloat64(BulkItems.WithLabelValues("test_edit", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BulkItems.WithLabelValues("test_edit", "skipped")))
	assert.Equal(t, float64(2), testutil.ToFloat64(BulkItems.WithLabelValues("test_edit", "failed")))
}
