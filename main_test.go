package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"showcase/internal/config"
	"showcase/internal/database"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		AppPort:      ":0",
		DBDriver:     "sqlite",
		DatabaseDSN:  fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:    "test_jwt_secret",
		TokenTTL:     time.Hour,
		GithubAPIURL: "http://127.0.0.1:0",
		LogLevel:     "error",
	}
	require.NoError(t, cfg.Validate())

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	app, closeApp, err := newApp(context.Background(), cfg, db, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeApp() })
	return app
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app := newTestApp(t)

	// --- Test Health Endpoint ---
	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		bodyString := string(bodyBytes)
		assert.Contains(t, bodyString, "\"status\":\"healthy\"", "Health check response body does not contain expected status")
		assert.Contains(t, bodyString, "\"rabbitmq\":\"disabled\"")
	})

	// --- Test Unauthenticated Access ---
	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		for _, route := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/users/me"},
			{http.MethodPost, "/api/v1/projects"},
			{http.MethodPost, "/api/v1/projects/some-id/reaction"},
			{http.MethodGet, "/api/v1/notifications"},
			{http.MethodPost, "/api/v1/badges/check"},
		} {
			resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil), -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Expected Unauthorized for %s %s without token", route.method, route.path)
		}
	})

	// --- Test Public Catalog ---
	t.Run("PublicCatalog", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/badges", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(bodyBytes), "Early Adopter")
	})

	// --- Test Sign-in Without OAuth App ---
	t.Run("SignInDisabled", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/github/login", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCloseLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	closeLogged(log, "rabbitmq client", func() error { return errors.New("channel already closed") })
	closeLogged(log, "database", func() error { return nil })

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "error closing rabbitmq client", entries[0].Message)
	assert.Equal(t, "channel already closed", entries[0].ContextMap()["error"])
}

func TestNewAppFailsWithoutSchema(t *testing.T) {
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{JWTSecret: "test_jwt_secret", DBDriver: "sqlite", LogLevel: "error"}
	_, _, err = newApp(context.Background(), cfg, db, zap.NewNop())
	assert.ErrorContains(t, err, "failed to seed badge catalog")
}
