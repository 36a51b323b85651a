package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orderfeed/pkg/httpx"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
	return w
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/refresh", httpx.RateLimit(0.001, 2, nopLogger{}), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		if w := serve(r, http.MethodPost, "/refresh"); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: want 204, got %d", i, w.Code)
		}
	}
	w := serve(r, http.MethodPost, "/refresh")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After header must be set")
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", httpx.RateLimit(0, 0, nopLogger{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		if w := serve(r, http.MethodGet, "/"); w.Code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i, w.Code)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(httpx.CORS([]string{"http://dashboard.local"}))
	r.GET("/api/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", http.NoBody)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("want 204 on preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://dashboard.local" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}
