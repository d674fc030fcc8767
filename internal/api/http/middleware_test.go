package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/observability"
	apperrors "github.com/janus-pm/janus/pkg/util"
)

func newTestApp() (*fiber.App, *observability.Metrics) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second)
	return app, metrics
}

func TestErrorMiddlewareMapsDomainErrors(t *testing.T) {
	app, _ := newTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": "ticket-000000"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "NOT_FOUND", payload.Error.Code)
	assert.Equal(t, "ticket-000000", payload.Error.Details["ticket_id"])
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app, _ := newTestApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestErrorMiddlewarePassesThroughSuccess(t *testing.T) {
	app, metrics := newTestApp()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), metrics.EventCount("anything"))
}
