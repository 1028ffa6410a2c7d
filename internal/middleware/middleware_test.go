package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/annel0/buildgen/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestLogger_SetsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriterLogger("http", &buf, logging.INFO)

	r := gin.New()
	r.Use(NewRequestLogger(logger).Handler())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(TraceIDKey)
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(TraceHeader))
	assert.Contains(t, buf.String(), "/ping")
	assert.Contains(t, buf.String(), seen)
}

func TestPrometheusMiddleware_CountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw := NewPrometheusMiddleware("test", reg)

	r := gin.New()
	r.Use(mw.Handler())
	mw.RegisterMetricsEndpoint(r)
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(mw.reqErrors.WithLabelValues("GET", "/fail", "400")))
	assert.Equal(t, 0.0, testutil.ToFloat64(mw.reqInflight))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_request_errors_total")
}
