package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Authenticator resolves a session key to a user ID
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (int64, error)
}

type contextKey struct{}

// UserIDFromContext returns the user ID stored by AuthInterceptor
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the session key from the authorization metadata ("Bearer " prefix optional).
// If the key is missing or invalid, it returns status.Unauthenticated.
// If valid, it calls the handler with the user ID stored in the context.
func AuthInterceptor(sessions Authenticator) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		key := strings.TrimPrefix(authHeaders[0], "Bearer ")
		userID, err := sessions.Authenticate(ctx, key)
		if err != nil {
			return nil, mapError(err)
		}

		return handler(context.WithValue(ctx, contextKey{}, userID), req)
	}
}
