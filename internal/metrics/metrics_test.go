package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.UploadResult("success")
	m.UploadResult("success")
	m.CleanupStep("delete_file", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleanupSteps.WithLabelValues("delete_file", "failed")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "popnow_video_uploads_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.UploadResult("success")
		m.AvatarDecision("approved")
		m.CleanupStep("notify_user", true)
		m.QueryError("map")
	})
}
