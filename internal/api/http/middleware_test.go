package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/customer-service/internal/observability"
	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

func TestRequestLoggerSeesFinalStatus(t *testing.T) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("Customer not found")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("client status = %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp)["message"]; msg != "Customer not found" {
		t.Fatalf("message = %v", msg)
	}

	// The request counter carries the status the client saw.
	if count := metrics.Requests("/missing", http.MethodGet, http.StatusNotFound); count != 1 {
		t.Fatalf("404 count = %d", count)
	}
	if count := metrics.Requests("/missing", http.MethodGet, http.StatusOK); count != 0 {
		t.Fatalf("spurious 200 count = %d", count)
	}
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("handler blew up")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp)["message"]; msg != "Internal server error" {
		t.Fatalf("message = %v", msg)
	}
	if count := metrics.Requests("/boom", http.MethodGet, http.StatusInternalServerError); count != 1 {
		t.Fatalf("500 count = %d", count)
	}
}
