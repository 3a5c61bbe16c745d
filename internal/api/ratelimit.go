package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// rateLimitExempt lists paths probes and scrapers hit on a schedule.
var rateLimitExempt = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// rateLimit rejects requests over the per-IP budget with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rateLimitExempt[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		// Use IP address as the rate limit key.
		key := getClientIP(r)

		if !s.limiter.Allow(key) {
			rateLimitRejects.Inc()
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			writeError(w, http.StatusTooManyRequests, &APIError{
				Code:    statusToCode(http.StatusTooManyRequests),
				Message: "Too many requests. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeError writes an APIError outside of a huma operation.
func writeError(w http.ResponseWriter, status int, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr) //nolint:errcheck // Client went away
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return strings.Trim(ip[:i], "[]")
	}
	return ip
}
