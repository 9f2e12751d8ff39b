package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const OperationIDKey contextKey = "operation_id"

// Operation tags ctx with a fresh operation id and a logger carrying it, logs
// the start, and returns a func that logs completion with the duration.
func Operation(ctx context.Context, logger zerolog.Logger, name string) (context.Context, func(error)) {
	start := time.Now()

	id := GetOperationID(ctx)
	if id == "" {
		id = uuid.New().String()
	}
	ctx = context.WithValue(ctx, OperationIDKey, id)

	opLogger := logger.With().Str("operation_id", id).Str("operation", name).Logger()
	ctx = opLogger.WithContext(ctx)

	opLogger.Info().Msg("operation started")

	return ctx, func(err error) {
		duration := time.Since(start)
		ev := opLogger.Info()
		if err != nil {
			ev = opLogger.Error().Err(err)
		}
		ev.Int64("duration_ms", duration.Milliseconds()).
			Dur("duration", duration).
			Msg("operation completed")
	}
}

func GetOperationID(ctx context.Context) string {
	if id, ok := ctx.Value(OperationIDKey).(string); ok {
		return id
	}
	return ""
}
