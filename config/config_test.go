package config

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("NODE_ID", "7")
	LoadConfig()

	assert.Equal(t, "/api/v1", MAIN_ROUTES)
	assert.Equal(t, "sqlite", DBDriver)
	assert.Equal(t, int64(7), NodeID)
	assert.False(t, AuthEnabled)
	assert.Equal(t, 10, DBMaxOpenConns)
}

func TestLoadAllowedOrigins(t *testing.T) {
	loadAllowedOrigins(" http://a.test , ,http://b.test")
	assert.True(t, allowedOrigins["http://a.test"])
	assert.True(t, allowedOrigins["http://b.test"])
	assert.Len(t, allowedOrigins, 2)

	loadAllowedOrigins("")
	assert.True(t, allowedOrigins["http://127.0.0.1:3000"])
}

func TestSetupCORS(t *testing.T) {
	loadAllowedOrigins("http://a.test")
	app := fiber.New()
	SetupCORS(app)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(fiber.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://a.test")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://a.test", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
