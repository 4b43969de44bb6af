package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type callContextKey struct{}

// Call identifies one tool dispatch as it flows through the router and
// into the remote client. RequestID is forwarded upstream as x-request-id.
type Call struct {
	RequestID string
	Tool      string
	Started   time.Time
}

func (c Call) IsZero() bool {
	return c.RequestID == ""
}

// Elapsed reports the time since the call started, or zero when it has no start.
func (c Call) Elapsed() time.Duration {
	if c.Started.IsZero() {
		return 0
	}
	return time.Since(c.Started)
}

func WithCall(ctx context.Context, call Call) context.Context {
	if call.IsZero() {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callContextKey{}, call)
}

func CallFromContext(ctx context.Context) (Call, bool) {
	if ctx == nil {
		return Call{}, false
	}
	call, ok := ctx.Value(callContextKey{}).(Call)
	return call, ok && !call.IsZero()
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	call, ok := CallFromContext(ctx)
	if !ok {
		return "", false
	}
	return call.RequestID, true
}

func NewRequestID() string {
	return uuid.NewString()
}

// StartCall begins a dispatch of tool. A request id already present on ctx
// is reused so a caller can correlate its own logs with ours.
func StartCall(ctx context.Context, tool string) (context.Context, Call) {
	call := Call{Tool: tool, Started: time.Now()}
	if existing, ok := CallFromContext(ctx); ok {
		call.RequestID = existing.RequestID
	} else {
		call.RequestID = NewRequestID()
	}
	return WithCall(ctx, call), call
}

func CallFields(call Call) []zap.Field {
	if call.IsZero() {
		return nil
	}
	fields := []zap.Field{RequestIDField(call.RequestID)}
	if call.Tool != "" {
		fields = append(fields, ToolField(call.Tool))
	}
	return fields
}

// LoggerForCall decorates base with the request id and tool of the call on ctx.
func LoggerForCall(ctx context.Context, base *zap.Logger) *zap.Logger {
	logger := base
	if logger == nil {
		logger = zap.NewNop()
	}
	call, ok := CallFromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(CallFields(call)...)
}
