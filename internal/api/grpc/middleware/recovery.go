package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/todo-server/internal/logger"
)

// Recovery converts handler panics into codes.Internal.
type Recovery struct {
	logger *logger.Logger
}

// NewRecovery creates a new Recovery middleware.
func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// Unary returns the unary recovery interceptor.
func (r *Recovery) Unary() grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(r.handle))
}

// Stream returns the stream recovery interceptor.
func (r *Recovery) Stream() grpc.StreamServerInterceptor {
	return recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(r.handle))
}

func (r *Recovery) handle(_ context.Context, p any) error {
	r.logger.Error("gRPC: panic recovered",
		"panic", fmt.Sprintf("%v", p),
		"stack", string(debug.Stack()))
	return status.Error(codes.Internal, "internal server error")
}
