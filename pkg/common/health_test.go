package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRequest(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/healthz", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthCheck(t *testing.T) {
	w, body := healthRequest(t, HealthCheck("storefront", "1.0.0"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "storefront", body.Service)
	assert.Equal(t, "1.0.0", body.Version)
	assert.False(t, body.Timestamp.IsZero())
	assert.Empty(t, body.Checks)
}

func TestHealthCheckWithDepsAllHealthy(t *testing.T) {
	checks := map[string]func() error{
		"database": func() error { return nil },
		"redis":    func() error { return nil },
	}

	w, body := healthRequest(t, HealthCheckWithDeps("storefront", "1.0.0", checks))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "ok", body.Checks["redis"])
}

func TestHealthCheckWithDepsDegraded(t *testing.T) {
	checks := map[string]func() error{
		"database": func() error { return nil },
		"redis":    func() error { return errors.New("connection refused") },
	}

	w, body := healthRequest(t, HealthCheckWithDeps("storefront", "1.0.0", checks))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}
