package middleware_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/oauth"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() *services.AuthService {
	return services.NewAuthService(oauth.NewRegistry(), repositories.NewMemoryOAuthStateRepository(),
		services.AuthConfig{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour}, nil)
}

func protectedApp(authService *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/private", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		claims := c.Locals(middleware.ClaimsKey).(*models.Claims)
		return c.SendString(claims.Provider + ":" + c.Locals(middleware.UserIDKey).(string))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	authService := newAuthService()
	app := protectedApp(authService)

	token, err := authService.IssueToken(models.Identity{ID: "naver-7", Provider: "naver"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, fiber.StatusUnauthorized},
		{"empty token", "Bearer ", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"valid token", "Bearer " + token, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			if tt.status == fiber.StatusOK {
				assert.Equal(t, "naver:naver-7", string(body))
			} else {
				assert.Contains(t, string(body), `"error":"unauthorized"`)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(middleware.Metrics(m))
	app.Get("/api/products/:id", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("missing")
	})

	for _, path := range []string{"/api/products/1", "/api/products/2"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	expected := `
# HELP storefront_http_requests_total HTTP requests by method, route and status.
# TYPE storefront_http_requests_total counter
storefront_http_requests_total{method="GET",route="/api/products/:id",status="404"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "storefront_http_requests_total"))
}
