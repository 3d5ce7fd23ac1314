// Package metadata attaches request-scoped values (correlation ID, request
// time) to the context before handlers run.
package metadata

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"compass/pkg/requestcontext"
)

const headerRequestID = "X-Request-Id"

// Middleware assigns a request ID (honoring an inbound X-Request-Id header)
// and pins the request time so every layer observes the same clock reading.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		w.Header().Set(headerRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
