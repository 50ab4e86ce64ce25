package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrUnavailable = errors.New("server unavailable")

// statusSentinels lists, per status code, the errors the server may report
// with that code. The server puts the error text in the status message, so
// the prefix identifies the sentinel.
var statusSentinels = map[codes.Code][]error{
	codes.Unauthenticated:    {common.ErrTokenExpired, common.ErrInvalidToken, common.ErrUnauthenticated},
	codes.PermissionDenied:   {common.ErrUnauthorized},
	codes.InvalidArgument:    {common.ErrInvalidAmount, common.ErrSelfTransfer, common.ErrInvalidPrincipal, common.ErrInvalidRole, common.ErrInvalidProfile},
	codes.FailedPrecondition: {common.ErrInsufficientBalance},
	codes.NotFound:           {common.ErrNotFound},
	codes.Internal:           {common.ErrInternal},
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}

	for _, sentinel := range statusSentinels[st.Code()] {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()); ok {
			return fmt.Errorf("%w%s", sentinel, rest)
		}
	}
	// e.g. "missing token"
	if st.Code() == codes.Unauthenticated {
		return fmt.Errorf("%w: %s", common.ErrUnauthenticated, msg)
	}
	return fmt.Errorf("rpc error: %w", err)
}
