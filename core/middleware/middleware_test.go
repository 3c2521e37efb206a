package middleware_test

import (
	"net/http/httptest"
	"testing"

	"bucketkit/core/middleware/auth"
	"bucketkit/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Use(auth.New(auth.Config{ApiKey: apiKey}))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(rayid.LocalsKey).(string))
	})
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		header string
		want   int
	}{
		{"Disabled", "", "", 200},
		{"Missing", "secret", "", 401},
		{"Wrong", "secret", "nope", 401},
		{"Valid", "secret", "secret", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ping", nil)
			if tt.header != "" {
				req.Header.Set(auth.HeaderName, tt.header)
			}
			resp, err := newApp(tt.apiKey).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRayID(t *testing.T) {
	t.Run("Generated", func(t *testing.T) {
		resp, err := newApp("").Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)

		rid := resp.Header.Get(rayid.HeaderName)
		_, parseErr := uuid.Parse(rid)
		assert.NoError(t, parseErr)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(rayid.HeaderName, "upstream-123")
		resp, err := newApp("").Test(req)
		require.NoError(t, err)
		assert.Equal(t, "upstream-123", resp.Header.Get(rayid.HeaderName))
	})
}
