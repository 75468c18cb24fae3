// Copyright 2025 Joseph Cumines
//
// Request rate limiting for HTTP transport

package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter bounds the request rate of the HTTP transport using a token
// bucket. When the bucket is empty, requests are rejected with HTTP 429 Too
// Many Requests. A nil *RateLimiter disables limiting entirely.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond sustained
// throughput with a burst of 2x the rate (minimum 1). Returns nil if rate is
// 0 or negative, disabling rate limiting.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	burst := int(requestsPerSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Allow reports whether a request should proceed, consuming a token if so.
// Thread-safe; a nil limiter always allows.
func (r *RateLimiter) Allow() bool {
	if r == nil {
		return true
	}
	return r.limiter.Allow()
}

// Burst returns the bucket capacity, or -1 when limiting is disabled.
func (r *RateLimiter) Burst() int {
	if r == nil {
		return -1
	}
	return r.limiter.Burst()
}

// RateLimitMiddleware creates HTTP middleware that applies rate limiting.
// The /health and /metrics endpoints are exempt. Returns 429 when rate limited.
// If limiter is nil, the middleware is a passthrough.
func RateLimitMiddleware(limiter *RateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Health checks and metric scrapes must not be throttled, or load
		// balancers and monitoring flap under client misbehavior.
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
