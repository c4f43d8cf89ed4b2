// Package middleware holds HTTP server middleware.
package middleware

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// slowRequestThreshold flags requests worth a closer look. Webhook handling
// itself is fast; a slow request usually means a stuck outbound call.
const slowRequestThreshold = 3 * time.Second

// Logging logs method, path, duration and outcome of every request.
func Logging(logger log.Logger) middleware.Middleware {
	helper := log.NewHelper(logger)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			start := time.Now()

			var method, path string
			if tr, ok := transport.FromServerContext(ctx); ok {
				method = tr.Operation()
				path = tr.Operation()
				if ht, ok := tr.(http.Transporter); ok {
					httpReq := ht.Request()
					method = httpReq.Method
					path = httpReq.URL.Path
				}
			}

			reply, err := handler(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				helper.Errorw("msg", "request failed",
					"method", method,
					"path", path,
					"duration_ms", elapsed.Milliseconds(),
					"error", err)
				return reply, err
			}

			if elapsed > slowRequestThreshold {
				helper.Warnw("msg", "slow request",
					"method", method,
					"path", path,
					"duration_ms", elapsed.Milliseconds())
			} else {
				helper.Infow("msg", "request handled",
					"method", method,
					"path", path,
					"duration_ms", elapsed.Milliseconds())
			}

			return reply, nil
		}
	}
}
