package server

import (
	"net/http"
	"strings"

	"github.com/agbru/hardyz/internal/service"
)

// SecurityConfig holds the response headers policy and the request limits.
type SecurityConfig struct {
	// EnableCORS enables Cross-Origin Resource Sharing headers.
	EnableCORS bool
	// AllowedOrigins specifies allowed CORS origins. Use "*" for all origins.
	AllowedOrigins []string
	// AllowedMethods specifies allowed HTTP methods for CORS.
	AllowedMethods []string

	// MaxT bounds |t| for every height parameter.
	MaxT float64
	// MaxPoints bounds the samples of a /block request.
	MaxPoints int
	// MaxScanSpan bounds to-from of a /zeros request.
	MaxScanSpan float64
	// MaxScanSamples bounds (to-from)/step of a /zeros request.
	MaxScanSamples int
	// MaxBernoulli bounds n for /bernoulli.
	MaxBernoulli int
	// MaxGram bounds n for /gram.
	MaxGram int
}

// DefaultSecurityConfig returns the default security configuration. The
// height limit keeps the Euler-Maclaurin sum, linear in t, below about a
// second per point.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxT:           1e7,
		MaxPoints:      100_000,
		MaxScanSpan:    10_000,
		MaxScanSamples: 1_000_000,
		MaxBernoulli:   1_000,
		MaxGram:        10_000,
	}
}

// Limits returns the evaluation limits enforced by the service.
func (c SecurityConfig) Limits() service.Limits {
	return service.Limits{
		MaxT:           c.MaxT,
		MaxPoints:      c.MaxPoints,
		MaxScanSpan:    c.MaxScanSpan,
		MaxScanSamples: c.MaxScanSamples,
	}
}

// SecurityMiddleware adds security headers and CORS handling.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			origin := r.Header.Get("Origin")
			allowedOrigin := ""
			for _, allowed := range config.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					allowedOrigin = allowed
					break
				}
			}

			if allowedOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next(w, r)
	}
}
