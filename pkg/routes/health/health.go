// Package health exposes liveness, readiness and run-progress endpoints.
package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Progress reports the pipeline's running counters.
type Progress interface {
	Products() int64
	Rejected() int64
}

// Check probes one named collaborator.
type Check struct {
	Name string
	Ping func() error
}

// Checker handles health check endpoints.
type Checker struct {
	checks    []Check
	progress  Progress
	version   string
	startTime time.Time
	ready     atomic.Bool
}

// NewChecker creates a new health checker. progress may be nil when no run
// is active.
func NewChecker(checks []Check, progress Progress, version string) *Checker {
	return &Checker{
		checks:    checks,
		progress:  progress,
		version:   version,
		startTime: time.Now(),
	}
}

// SetReady sets the readiness state.
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

// RegisterRoutes registers health check endpoints.
func (c *Checker) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/health", c.Health)
	e.GET("/api/v1/health/live", c.Live)
	e.GET("/api/v1/health/ready", c.Ready)
	e.GET("/api/v1/status", c.Status)
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Checks     map[string]*CheckResult `json:"checks"`
	ReportedAt time.Time               `json:"reported_at"`
}

// CheckResult represents an individual check result.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health probes every collaborator and reports the overall status.
func (c *Checker) Health(ctx echo.Context) error {
	status := &HealthStatus{
		Status:     "healthy",
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     make(map[string]*CheckResult),
		ReportedAt: time.Now(),
	}

	for _, check := range c.checks {
		start := time.Now()
		err := check.Ping()
		latency := time.Since(start)

		if err != nil {
			status.Status = "unhealthy"
			status.Checks[check.Name] = &CheckResult{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[check.Name] = &CheckResult{
				Status:  "healthy",
				Latency: latency.String(),
			}
		}
	}

	httpStatus := http.StatusOK
	if status.Status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	return ctx.JSON(httpStatus, status)
}

// Live returns the liveness status (is the service running).
func (c *Checker) Live(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// Ready returns the readiness status (is the service ready to accept traffic).
func (c *Checker) Ready(ctx echo.Context) error {
	if c.ready.Load() {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}
	return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
}

// StatusResponse reports the current run's counters.
type StatusResponse struct {
	Running  bool  `json:"running"`
	Products int64 `json:"products"`
	Rejected int64 `json:"rejected"`
}

// Status reports the pipeline run's progress.
func (c *Checker) Status(ctx echo.Context) error {
	resp := &StatusResponse{}
	if c.progress != nil {
		resp.Running = true
		resp.Products = c.progress.Products()
		resp.Rejected = c.progress.Rejected()
	}
	return ctx.JSON(http.StatusOK, resp)
}
