package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStoreOperation(t *testing.T) {
	counter := StoreOperationsTotal.WithLabelValues("create", "success")
	before := testutil.ToFloat64(counter)

	RecordStoreOperation("create", "success")

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("count = %v, want %v", got, before+1)
	}
}

func TestRecordRequest(t *testing.T) {
	counter := RequestsTotal.WithLabelValues("GET", "/api/health", "200")
	before := testutil.ToFloat64(counter)

	RecordRequest("GET", "/api/health", "200", 0.01)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("count = %v, want %v", got, before+1)
	}
}
