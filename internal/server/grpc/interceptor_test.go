package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/identity"
	"github.com/dmitrijs2005/workcredits/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, &fakeLedger{}, secret)
}

var mintInfo = &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodMintCredits)}

func TestInterceptor_Ping_AllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodPing)}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, mintInfo, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: "not-a-valid-jwt",
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, mintInfo, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	secret := "secret"
	s := newTestServer(secret)

	token, err := auth.GenerateToken("alice", []byte(secret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))

	_, err = s.accessTokenInterceptor(ctx, nil, mintInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for expired token")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated || status.Convert(err).Message() != "token expired" {
		t.Fatalf("expected Unauthenticated/token expired, got %v", err)
	}
}

func TestInterceptor_ValidToken_SetsPrincipal(t *testing.T) {
	secret := "super-secret"
	s := newTestServer(secret)

	token, err := auth.GenerateToken("alice", []byte(secret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: token,
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var got string
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = identity.FromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(ctx, nil, mintInfo, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if got != "alice" {
		t.Fatalf("principal not propagated in context: got %q", got)
	}
}

type recordingObserver struct {
	method, code string
}

func (r *recordingObserver) ObserveRPC(method, code string, _ time.Duration) {
	r.method, r.code = method, code
}

func TestRequestLogInterceptor_ReportsOutcome(t *testing.T) {
	obs := &recordingObserver{}
	s := NewGRPCServer("", nopLogger{}, &fakeLedger{}, "k", WithObserver(obs))

	_, err := s.requestLogInterceptor(context.Background(), nil, mintInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.PermissionDenied, "no")
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("error not passed through: %v", err)
	}
	if obs.method != mintInfo.FullMethod || obs.code != codes.PermissionDenied.String() {
		t.Fatalf("observer got %q %q", obs.method, obs.code)
	}

	resp, err := s.requestLogInterceptor(context.Background(), nil, mintInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("unexpected result %v %v", resp, err)
	}
	if obs.code != codes.OK.String() {
		t.Fatalf("expected OK, got %q", obs.code)
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrUnauthenticated, codes.Unauthenticated},
		{common.ErrUnauthorized, codes.PermissionDenied},
		{common.ErrInvalidAmount, codes.InvalidArgument},
		{common.ErrSelfTransfer, codes.InvalidArgument},
		{common.ErrInvalidPrincipal, codes.InvalidArgument},
		{common.ErrInvalidRole, codes.InvalidArgument},
		{common.ErrInvalidProfile, codes.InvalidArgument},
		{common.ErrInsufficientBalance, codes.FailedPrecondition},
		{common.ErrNotFound, codes.NotFound},
		{fmt.Errorf("%w: disk gone", common.ErrLedgerHalted), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.Unavailable, "down"), codes.Unavailable},
	}
	for _, tt := range tests {
		if got := status.Code(toStatus(tt.err)); got != tt.want {
			t.Errorf("toStatus(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if toStatus(nil) != nil {
		t.Fatal("toStatus(nil) must be nil")
	}
}
