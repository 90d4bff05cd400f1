package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// FromContext returns the logger carried by ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(loggerKey{}).(*log.Logger); logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger attaches logger to ctx. A nil ctx is treated as Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithFields attaches a child of ctx's logger that adds keyvals to every
// entry.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	if len(keyvals) == 0 {
		return ctx
	}
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}
