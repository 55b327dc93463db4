package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGeneration(t *testing.T) {
	before := testutil.ToFloat64(generations.WithLabelValues("test"))
	beforeCorrections := testutil.ToFloat64(corrections)

	RecordGeneration("test", 2*time.Millisecond, 162, 2, 0)

	assert.Equal(t, before+1, testutil.ToFloat64(generations.WithLabelValues("test")))
	assert.Equal(t, beforeCorrections+2, testutil.ToFloat64(corrections))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	RecordScheduledRun(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "luckystat_http_requests_total")
	assert.Contains(t, body, `route="unmatched"`)
	assert.Contains(t, body, "luckystat_schedule_runs_total")
}
