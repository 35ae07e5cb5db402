package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// WithRequestID tags the context logger with the caller's request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("request_id", id)
	})
}

// WithRoute tags the context logger with the request method and path.
func WithRoute(ctx context.Context, method, path string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("method", method).Str("path", path)
	})
}

// WithModule tags the context logger with a route module prefix.
func WithModule(ctx context.Context, prefix string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("module", prefix)
	})
}

// WithUpstream tags the context logger with an outbound API name.
func WithUpstream(ctx context.Context, name string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("upstream", name)
	})
}

func with(ctx context.Context, fields func(zerolog.Context) zerolog.Context) context.Context {
	l := fields(FromContext(ctx).With()).Logger()
	return context.WithValue(ctx, loggerKey{}, &l)
}
