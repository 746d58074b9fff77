package middleware

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"

	"github.com/dtroode/todo-server/internal/logger"
)

// Logging logs gRPC calls through the application logger.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Unary returns the unary logging interceptor.
func (l *Logging) Unary() grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(l.interceptorLogger(), l.options()...)
}

// Stream returns the stream logging interceptor.
func (l *Logging) Stream() grpc.StreamServerInterceptor {
	return logging.StreamServerInterceptor(l.interceptorLogger(), l.options()...)
}

func (l *Logging) options() []logging.Option {
	return []logging.Option{
		logging.WithLogOnEvents(logging.FinishCall),
	}
}

func (l *Logging) interceptorLogger() logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.logger.Log(ctx, slog.Level(lvl), "gRPC: "+msg, fields...)
	})
}
