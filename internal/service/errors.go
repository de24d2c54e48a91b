package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/internal/storage"
)

// toConnectError maps core and storage errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, rotation.ErrNotFound),
		errors.Is(err, rotation.ErrRoundNotFound),
		errors.Is(err, rotation.ErrMemberNotInRound),
		errors.Is(err, rotation.ErrPaymentNotFound):
		return connect.NewError(connect.CodeNotFound, err)

	case errors.Is(err, rotation.ErrDuplicatePhone),
		errors.Is(err, rotation.ErrAlreadyLaunched),
		errors.Is(err, rotation.ErrAlreadyPaid):
		return connect.NewError(connect.CodeAlreadyExists, err)

	case errors.Is(err, rotation.ErrInvalidPermutation):
		return connect.NewError(connect.CodeInvalidArgument, err)

	case errors.Is(err, rotation.ErrCapacityExceeded),
		errors.Is(err, rotation.ErrRosterLocked),
		errors.Is(err, rotation.ErrIncompleteRoster),
		errors.Is(err, rotation.ErrInvalidRosterSize),
		errors.Is(err, rotation.ErrNotDeclared),
		errors.Is(err, rotation.ErrNoCurrentRound),
		errors.Is(err, rotation.ErrInvalidTransition):
		return connect.NewError(connect.CodeFailedPrecondition, err)

	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	}

	slog.Error("Unexpected error", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(msg string) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
