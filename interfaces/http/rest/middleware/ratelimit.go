package middleware

import (
	"net"
	"net/http"

	"planner-backend/pkg/common"
	pkgerrors "planner-backend/pkg/errors"
	"planner-backend/pkg/ratelimit"
)

// RateLimit rejects requests over the per-client budget. Keyed by
// remote IP so a runaway client cannot exhaust the generation bridge.
func RateLimit(limiter *ratelimit.TokenBucket) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !limiter.Allow(host) {
				common.RespondError(w, pkgerrors.NewRateLimitError("too many requests, slow down"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
