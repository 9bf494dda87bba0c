package kit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID assigns a fresh request id unless the context already has one.
func RequestID() Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			if GetRequestID(ctx) == "" {
				ctx = WithRequestID(ctx, uuid.NewString())
			}
			return next(ctx, request)
		}
	}
}

// Logging logs every call of the named endpoint at debug level, and
// failures at warn.
func Logging(logger *zap.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)

			fields := []zap.Field{
				zap.String("endpoint", name),
				zap.String("request_id", GetRequestID(ctx)),
				zap.String("transport", GetTransport(ctx)),
				zap.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				logger.Warn("endpoint failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("endpoint done", fields...)
			}
			return resp, err
		}
	}
}
