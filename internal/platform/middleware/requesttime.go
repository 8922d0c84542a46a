package middleware

import (
	"net/http"
	"time"

	"sprout/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. All age and status computation within a single
// request uses this one timestamp, so a progress list cannot straddle a
// window boundary mid-response.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		ctx := requestcontext.WithTime(r.Context(), now)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
