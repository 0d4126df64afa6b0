package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck reports liveness without probing dependencies.
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    statusOK,
			Service:   serviceName,
			Version:   version,
			Timestamp: time.Now().UTC(),
		})
	}
}

// HealthCheckWithDeps probes each named dependency and reports per-check
// results. Any failing check degrades the overall status to 503 so load
// balancers pull the instance out of rotation.
func HealthCheckWithDeps(serviceName, version string, checks map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		overall := statusOK
		results := make(map[string]string, len(checks))

		for name, check := range checks {
			if err := check(); err != nil {
				results[name] = err.Error()
				overall = statusDegraded
			} else {
				results[name] = statusOK
			}
		}

		code := http.StatusOK
		if overall == statusDegraded {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, HealthResponse{
			Status:    overall,
			Service:   serviceName,
			Version:   version,
			Timestamp: time.Now().UTC(),
			Checks:    results,
		})
	}
}
