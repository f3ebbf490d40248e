package health

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgress struct {
	products int64
	rejected int64
}

func (p *fakeProgress) Products() int64 { return p.products }
func (p *fakeProgress) Rejected() int64 { return p.rejected }

func request(t *testing.T, checker *Checker, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	checker.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAllChecksPass(t *testing.T) {
	checker := NewChecker([]Check{
		{Name: "source", Ping: func() error { return nil }},
		{Name: "graph", Ping: func() error { return nil }},
	}, nil, "1.2.3")

	rec := request(t, checker, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, rec.Body.String(), `"source"`)
	assert.Contains(t, rec.Body.String(), `"graph"`)
}

func TestHealthFailingCheck(t *testing.T) {
	checker := NewChecker([]Check{
		{Name: "source", Ping: func() error { return nil }},
		{Name: "graph", Ping: func() error { return fmt.Errorf("connection refused") }},
	}, nil, "1.2.3")

	rec := request(t, checker, "/api/v1/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestLive(t *testing.T) {
	checker := NewChecker(nil, nil, "dev")

	rec := request(t, checker, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReady(t *testing.T) {
	checker := NewChecker(nil, nil, "dev")

	rec := request(t, checker, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	checker.SetReady(true)
	rec = request(t, checker, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus(t *testing.T) {
	checker := NewChecker(nil, &fakeProgress{products: 10, rejected: 2}, "dev")

	rec := request(t, checker, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":true`)
	assert.Contains(t, rec.Body.String(), `"products":10`)
	assert.Contains(t, rec.Body.String(), `"rejected":2`)
}

func TestStatusNoRun(t *testing.T) {
	checker := NewChecker(nil, nil, "dev")

	rec := request(t, checker, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)
}
