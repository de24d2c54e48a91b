package service

import (
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/internal/storage"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{storage.ErrNotFound, connect.CodeNotFound},
		{rotation.ErrNotFound, connect.CodeNotFound},
		{rotation.ErrRoundNotFound, connect.CodeNotFound},
		{rotation.ErrMemberNotInRound, connect.CodeNotFound},
		{rotation.ErrPaymentNotFound, connect.CodeNotFound},
		{rotation.ErrDuplicatePhone, connect.CodeAlreadyExists},
		{rotation.ErrAlreadyLaunched, connect.CodeAlreadyExists},
		{rotation.ErrAlreadyPaid, connect.CodeAlreadyExists},
		{rotation.ErrInvalidPermutation, connect.CodeInvalidArgument},
		{rotation.ErrCapacityExceeded, connect.CodeFailedPrecondition},
		{rotation.ErrRosterLocked, connect.CodeFailedPrecondition},
		{rotation.ErrIncompleteRoster, connect.CodeFailedPrecondition},
		{rotation.ErrInvalidRosterSize, connect.CodeFailedPrecondition},
		{rotation.ErrNotDeclared, connect.CodeFailedPrecondition},
		{rotation.ErrNoCurrentRound, connect.CodeFailedPrecondition},
		{rotation.ErrInvalidTransition, connect.CodeFailedPrecondition},
		{storage.ErrConflict, connect.CodeAborted},
		{errors.New("disk on fire"), connect.CodeInternal},
		{connect.NewError(connect.CodeUnauthenticated, errors.New("no token")), connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("tontine t1: %w", tt.err)
			if got := toConnectError(wrapped).Code(); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}
