package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExportsMetrics(t *testing.T) {
	RecordRPCRequest("http", "healthz")
	ObserveOperation("mirror_encrypt", OutcomeOK, time.Millisecond)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body := rr.Body.String()
	required := []string{
		"# HELP divij_operations_total",
		"# HELP divij_rpc_requests_total",
		"# HELP divij_recipes",
		"go_goroutines",
	}
	for _, metric := range required {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected metric %q to be exported", metric)
		}
	}
}

func TestOperationCounters(t *testing.T) {
	before := testutil.ToFloat64(operationsTotal.WithLabelValues("spiral_encrypt", OutcomeInvalidParameter))
	ObserveOperation("spiral_encrypt", OutcomeInvalidParameter, 0)
	ObserveOperation("spiral_encrypt", OutcomeInvalidParameter, 0)
	if got := testutil.ToFloat64(operationsTotal.WithLabelValues("spiral_encrypt", OutcomeInvalidParameter)); got != before+2 {
		t.Errorf("expected %v, got %v", before+2, got)
	}

	inBefore := testutil.ToFloat64(operationBytes.WithLabelValues("board_encrypt", "in"))
	RecordOperationBytes("board_encrypt", 3, 6)
	if got := testutil.ToFloat64(operationBytes.WithLabelValues("board_encrypt", "in")); got != inBefore+3 {
		t.Errorf("expected %v input bytes, got %v", inBefore+3, got)
	}
	if got := testutil.ToFloat64(operationBytes.WithLabelValues("board_encrypt", "out")); got < 6 {
		t.Errorf("expected at least 6 output bytes, got %v", got)
	}
}

func TestRPCAndRecipeMetrics(t *testing.T) {
	RecordRPCError("grpc", "Execute", "NotFound")
	if got := testutil.ToFloat64(rpcErrors.WithLabelValues("grpc", "Execute", "NotFound")); got < 1 {
		t.Errorf("expected an error sample, got %v", got)
	}

	SetRecipeCount(4)
	if got := testutil.ToFloat64(recipes); got != 4 {
		t.Errorf("expected 4 recipes, got %v", got)
	}
	SetRecipeCount(0)
}
