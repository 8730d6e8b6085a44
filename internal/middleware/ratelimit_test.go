package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/tournaments", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1234"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5678"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1234"), "burst is spent")
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1234"), "other clients keep their own bucket")
}
