package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restobook/pkg/config"
	"restobook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type routes map[string]httprouter.Handle

func (r routes) RegisterRoutes(router *httprouter.Router) {
	for path, h := range r {
		method, p, _ := strings.Cut(path, " ")
		router.Handle(method, p, h)
	}
}

func reply(body string) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func testApp(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		Log:                logger.Discard(),
		Port:               "0",
		RateLimitRequests:  1,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Minute,
		MaxRequestSize:     1024,
		CORSAllowedOrigins: []string{"*"},
	}
	a := NewApplication(cfg)
	a.SetApp(
		routes{"POST /api/booking/:userId/:restaurantId/create": reply(`{"bookingId":"b-1"}`)},
		routes{"GET /health": reply(`{"status":"ok"}`)},
	)
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func TestHandler_Routing(t *testing.T) {
	h := testApp(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodPost, "/api/booking/u/r/create", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHandler_AppChainEnforcesContentType(t *testing.T) {
	h := testApp(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/booking/u/r/create", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHandler_ProbesSkipRateLimit(t *testing.T) {
	h := testApp(t).Handler()

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
