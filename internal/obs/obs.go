// Package obs holds the request-scoped logging helpers shared by the service.
package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries the request id set by the HTTP layer.
const RequestIDKey ctxKey = "req_id"

// WithRequestID returns ctx carrying id for later Time logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the id stored by WithRequestID, or "-".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return id
	}

	return "-"
}

// Time starts timing op name. Defer the returned func with the address of
// the named error result:
//
//	defer obs.Time(ctx, "round.compute")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("[TIMING] req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("[TIMING] req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
