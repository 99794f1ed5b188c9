package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("requests beyond the burst are rejected", func(t *testing.T) {
		// 1 rps with burst 2: the third immediate request must be refused.
		handler := NewRateLimiter(1, 2).Limit(okHandler())

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/tasks", nil))
			codes = append(codes, recorder.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("zero rps disables limiting", func(t *testing.T) {
		handler := NewRateLimiter(0, 0).Limit(okHandler())

		for i := 0; i < 50; i++ {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/tasks", nil))
			assert.Equal(t, http.StatusOK, recorder.Code)
		}
	})
}
