package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/identity"
	"github.com/dmitrijs2005/workcredits/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods can be called without an access token.
var publicMethods = map[string]struct{}{
	api.FullMethod(api.MethodPing): {},
}

// accessTokenInterceptor verifies the access token of every non-public
// call and puts its principal into the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	accessToken := firstMetadataValue(ctx, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	principal, err := auth.GetPrincipalFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(identity.WithPrincipal(ctx, principal), req)
}

// requestLogInterceptor tags each call with a request id, logs failures
// and reports the outcome to the observer.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	requestID := firstMetadataValue(ctx, common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	code := status.Code(err)
	s.observer.ObserveRPC(info.FullMethod, code.String(), elapsed)

	if err != nil {
		s.logger.Warn(ctx, "request failed",
			"method", info.FullMethod,
			"request_id", requestID,
			"code", code.String(),
			"error", status.Convert(err).Message(),
			"duration", elapsed,
		)
		return resp, err
	}
	s.logger.Debug(ctx, "request served", "method", info.FullMethod, "request_id", requestID, "duration", elapsed)
	return resp, nil
}

func firstMetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
