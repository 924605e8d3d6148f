package observability

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/dashboard", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/dashboard", "GET", 200, 12*time.Millisecond)
	m.RecordError("/dashboard", "GET", "INTERNAL_ERROR")
	m.RecordGuardDecision("protected", "redirect", "missing_token")
	m.RecordGuardDecision("protected", "pass_through_with_cookies", "")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/dashboard|GET|200"])
	assert.Equal(t, int64(12), snap.RequestLatencyMax["/dashboard|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/dashboard|GET|INTERNAL_ERROR"])
	assert.Equal(t, int64(1), snap.GuardDecisions["protected|redirect|missing_token"])
	assert.Equal(t, int64(1), snap.GuardDecisions["protected|pass_through_with_cookies"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordGuardDecision("public", "pass_through", "")

	snap := m.Snapshot()
	assert.Empty(t, snap.Requests)
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordGuardDecision("auth", "pass_through", "remote_rejected")
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Snapshot().GuardDecisions["auth|pass_through|remote_rejected"])
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	id := resp.Header.Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/ping|GET|200"])

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
