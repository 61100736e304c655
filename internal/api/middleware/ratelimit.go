package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles clients per IP and endpoint. Two limits apply: a
// minimum spacing between consecutive requests and a rolling request count
// over a longer window.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	maxRequests int
	window      time.Duration
	minSpacing  time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	requests []time.Time
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter and starts its idle-client sweeper
func NewRateLimiter(maxRequests int, window, minSpacing time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*clientLimiter),
		maxRequests: maxRequests,
		window:      window,
		minSpacing:  minSpacing,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether a request from the given key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[key]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(rl.minSpacing), 1),
		}
		rl.clients[key] = client
	}
	client.lastSeen = now

	// Drop window entries that have aged out
	cutoff := now.Add(-rl.window)
	kept := client.requests[:0]
	for _, t := range client.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	client.requests = kept

	if len(client.requests) >= rl.maxRequests {
		return false
	}
	if !client.limiter.Allow() {
		return false
	}

	client.requests = append(client.requests, now)
	return true
}

// sweep periodically drops clients that have gone quiet
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for key, client := range rl.clients {
			if client.lastSeen.Before(cutoff) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware enforces the rate limits, keyed by client IP and path
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r) + "|" + r.URL.Path
		if !rl.Allow(key) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "too many requests, slow down",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, honoring X-Forwarded-For
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
