package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/internal/auth"
	"github.com/mmynk/ecosplit/internal/calculator"
	"github.com/mmynk/ecosplit/internal/middleware"
	"github.com/mmynk/ecosplit/internal/storage"
)

// toConnectError maps domain errors to Connect codes. Unknown errors become
// CodeInternal.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrInvalidArgument),
		errors.Is(err, calculator.ErrParticipantNotFound),
		errors.Is(err, calculator.ErrLastParticipant):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidUsername):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// requireUser returns the authenticated user ID set by middleware.RequireAuth.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
