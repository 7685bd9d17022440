package classify

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
)

// CallEvent records metadata about a single model invocation.
type CallEvent struct {
	Provider  string
	Model     string
	Latency   time.Duration
	Success   bool
	ErrorCode string
}

// Observer receives events about model calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// ZapObserver logs every model call.
type ZapObserver struct {
	log *zap.Logger
}

func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log}
}

func (o *ZapObserver) OnCallComplete(e CallEvent) {
	fields := []zap.Field{
		zap.String("provider", e.Provider),
		zap.String("model", e.Model),
		zap.Duration("latency", e.Latency),
	}
	if e.Success {
		o.log.Debug("classifier call", fields...)
		return
	}
	o.log.Info("classifier call failed", append(fields, zap.String("error_code", e.ErrorCode))...)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
