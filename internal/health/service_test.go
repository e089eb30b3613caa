package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct{ err error }

func (s *stubChecker) HealthCheck(ctx context.Context) error { return s.err }

func newHealthApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Get("/v1/health", h.HandleHealth)
	return app
}

func getHealth(t *testing.T, app *fiber.App) (int, OverallHealth) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/health", nil))
	require.NoError(t, err)
	var body OverallHealth
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthBeforeReadyIsStarting(t *testing.T) {
	h := NewHandler(&stubChecker{})
	code, body := getHealth(t, newHealthApp(h))
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "starting", body.OverallStatus)
	assert.False(t, body.Ready)
}

func TestHealthReadyAndComponentsOk(t *testing.T) {
	h := NewHandler(&stubChecker{})
	h.SetReady()
	code, body := getHealth(t, newHealthApp(h))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body.OverallStatus)
	assert.Equal(t, "ok", body.Components["redis"].Status)
}

func TestHealthComponentFailure(t *testing.T) {
	h := NewHandler(&stubChecker{err: errors.New("redis down")})
	h.SetReady()
	code, body := getHealth(t, newHealthApp(h))
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "error", body.OverallStatus)
	assert.Equal(t, "redis down", body.Components["redis"].Error)
}

// SetReady races with in-flight health requests at startup; the readiness
// flag must be safe to flip while requests read it.
func TestHealthReadinessFlipsSafelyUnderLoad(t *testing.T) {
	h := NewHandler(&stubChecker{})
	app := newHealthApp(h)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := app.Test(httptest.NewRequest("GET", "/v1/health", nil))
			assert.NoError(t, err)
			assert.Contains(t, []int{fiber.StatusOK, fiber.StatusServiceUnavailable}, resp.StatusCode)
		}()
	}
	h.SetReady()
	wg.Wait()

	code, _ := getHealth(t, app)
	assert.Equal(t, fiber.StatusOK, code)
}
