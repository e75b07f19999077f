package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Envapa08241978/soynexo-servidor-final/handlers"
	"github.com/Envapa08241978/soynexo-servidor-final/middleware"
	"github.com/Envapa08241978/soynexo-servidor-final/services/audit"
)

func newTestRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	audit.NewMetrics(reg).Outcomes.WithLabelValues("chat").Inc()

	r := gin.New()
	r.Use(CORS(origins))
	RegisterRoutes(r, &handlers.HandlerBundle{
		AuditHandler:   func(c *gin.Context) { c.Status(http.StatusNoContent) },
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return r
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `audit_outcomes_total{outcome="chat"} 1`)
}

func TestRoutes_AuditIsPostOnly(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_CORSRestrictsOrigins(t *testing.T) {
	r := newTestRouter([]string{"https://soynexo.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader("{}"))
	req.Header.Set("Origin", "https://soynexo.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://soynexo.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/audit", strings.NewReader("{}"))
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutes_RateLimitedResponsesKeepCORSHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://soynexo.com"}))
	r.Use(middleware.NewRateLimiter(1).Middleware())
	RegisterRoutes(r, &handlers.HandlerBundle{
		AuditHandler: func(c *gin.Context) { c.Status(http.StatusNoContent) },
	})

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/audit", strings.NewReader("{}"))
		req.Header.Set("Origin", "https://soynexo.com")
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		if method == http.MethodOptions {
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Less(t, send(http.MethodOptions).Code, 300, "preflight answered by CORS")
	assert.Equal(t, http.StatusNoContent, send(http.MethodPost).Code, "preflight did not spend the token")

	w := send(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "https://soynexo.com", w.Header().Get("Access-Control-Allow-Origin"))
}
