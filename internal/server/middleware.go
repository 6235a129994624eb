// Access logging and rate limiting middleware.

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/maruel/ksid"
	"github.com/mavendb/mavend/internal/server/dto"
	"github.com/mavendb/mavend/internal/server/ipgeo"
	"github.com/mavendb/mavend/internal/server/ratelimit"
	"github.com/mavendb/mavend/internal/server/reqctx"
)

// statusRecorder captures the status code and bytes written for access
// logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if r.status == 0 {
		r.status = statusCode
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

// Unwrap returns the underlying ResponseWriter.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// AccessLogMiddleware assigns a request ID, enriches the context with
// client metadata, and logs one line per request. geo may be nil.
func AccessLogMiddleware(geo *ipgeo.Checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := ksid.NewID()
			ip := reqctx.GetClientIP(r)

			ctx := r.Context()
			ctx = reqctx.WithRequestID(ctx, reqID)
			ctx = reqctx.WithClientIP(ctx, ip)
			ctx = reqctx.WithUserAgent(ctx, r.Header.Get("User-Agent"))
			country := ""
			if geo != nil {
				country = geo.CountryCode(ip)
				ctx = reqctx.WithCountryCode(ctx, country)
			}

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			slog.InfoContext(ctx, "HTTP",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"dur", time.Since(start).Round(time.Microsecond),
				"bytes", rec.bytes,
				"ip", ip,
				"country", country,
				"reqID", reqID.String(),
			)
		})
	}
}

// RateLimitMiddleware enforces per-IP token bucket limits. Tier selection
// is by path; docs and health are exempt.
func RateLimitMiddleware(cfg *ratelimit.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tier := cfg.Match(r.URL.Path)
			if tier == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := ratelimit.BuildKey(reqctx.GetClientIP(r), tier.Name)
			result := tier.Limiter.Allow(key)
			w = ratelimit.NewResponseWriter(w, result)
			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				writeError(r.Context(), w, dto.RateLimitExceeded(retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
