package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCascadeSkipsEmptyTables(t *testing.T) {
	before := testutil.ToFloat64(cascadeRows.WithLabelValues("test_delete", "pay"))

	RecordCascade("test_delete", map[string]int64{"pay": 2, "process": 0})

	assert.Equal(t, before+2, testutil.ToFloat64(cascadeRows.WithLabelValues("test_delete", "pay")))
	assert.Equal(t, float64(0), testutil.ToFloat64(cascadeRows.WithLabelValues("test_delete", "process")))
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/main/products", http.StatusOK, 12*time.Millisecond)
	RecordHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `store_manager_http_requests_total{method="GET",route="/main/products",status="200"}`))
	assert.True(t, strings.Contains(body, `route="unmatched"`))
}
