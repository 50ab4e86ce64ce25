package grpc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps ledger errors to gRPC status errors. Anything unknown is
// reported as Internal without leaking the cause.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrSelfTransfer),
		errors.Is(err, common.ErrInvalidPrincipal),
		errors.Is(err, common.ErrInvalidRole),
		errors.Is(err, common.ErrInvalidProfile):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrLedgerHalted):
		// the cause is a storage detail; callers only learn that writes stopped
		return status.Error(codes.Unavailable, common.ErrLedgerHalted.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// decodeError reports a request the codec could not decode as the caller's
// fault. Amounts are the only big.Int fields in requests, so a big.Int
// failure means the amount was not a JSON integer.
func decodeError(err error) error {
	msg := status.Convert(err).Message()
	if strings.Contains(msg, "big.Int") {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("%s: amount must be a JSON integer", common.ErrInvalidAmount))
	}
	return status.Error(codes.InvalidArgument, "malformed request: "+msg)
}
