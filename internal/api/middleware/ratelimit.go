package middleware

import (
	"net/http"

	"github.com/tracklet/tracklet-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// RateLimiter applies a global token-bucket limit to protect the API
// against abuse. Requests beyond the limit receive 429 with a JSON body.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing rps events per second with the
// given burst. A zero rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Limit is the middleware entry point.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limiter != nil && !l.limiter.Allow() {
			shared.RespondWithError(w, r, http.StatusTooManyRequests,
				"The API is at capacity, try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
