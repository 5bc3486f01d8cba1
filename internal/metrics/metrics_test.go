package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_LeaveTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLeaveTransition("pending", "approved")
	c.RecordLeaveTransition("pending", "approved")
	c.RecordLeaveTransition("approved", "rejected")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.leaveTransitions.WithLabelValues("pending", "approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.leaveTransitions.WithLabelValues("approved", "rejected")))
}

func TestCollector_BalanceAdjustmentIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBalanceAdjustment("deduct", 3)
	c.RecordBalanceAdjustment("deduct", 0)
	c.RecordBalanceAdjustment("deduct", -2)

	assert.Equal(t, float64(3), testutil.ToFloat64(c.balanceDays.WithLabelValues("deduct")))
}

func TestCollector_HTTPRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveHTTPRequest(http.MethodGet, "/api/v1/leave-types", http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/api/v1/leave-types", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.httpDuration))
}

func TestCollector_Outbox(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOutboxPublished("leave.request.approved")
	c.RecordOutboxFailed("leave.request.approved")
	c.RecordOutboxFailed("leave.request.approved")
	c.RecordNotificationCreated("leave.request.approved")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.outboxPublished.WithLabelValues("leave.request.approved")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.outboxFailed.WithLabelValues("leave.request.approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.notifications.WithLabelValues("leave.request.approved")))
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLeaveTransition("pending", "rejected")

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `leave_transitions_total{from="pending",to="rejected"} 1`))
}
