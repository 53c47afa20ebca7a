package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
)

var errGroupNameTaken = errors.New("you already have a group with this name")

// toConnectError maps domain errors onto Connect codes. Anything unexpected
// becomes Internal.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, ledger.ErrGroupNotFound), errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrInvalidData):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ledger.ErrUnsettled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, errGroupNameTaken), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrMissingName):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, ledger.ErrIntegrity):
		metrics.IntegrityViolations.Inc()
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs err under msg and converts it for the wire.
func fail(msg string, err error, attrs ...any) error {
	cerr := toConnectError(err)
	attrs = append(attrs, "error", err, "code", cerr.Code())
	if cerr.Code() == connect.CodeInternal {
		slog.Error(msg, attrs...)
	} else {
		slog.Warn(msg, attrs...)
	}
	return cerr
}

// requireActor returns the authenticated caller.
func requireActor(ctx context.Context) (ledger.Actor, error) {
	actor, ok := middleware.ActorFrom(ctx)
	if !ok {
		return ledger.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return actor, nil
}
