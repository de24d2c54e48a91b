// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/dourou/internal/models"
)

var (
	// ErrNotFound is returned when a tontine does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write is based on a stale version of the
	// tontine, or the stored status no longer allows the write.
	ErrConflict = errors.New("tontine was modified concurrently")
)

// Store defines the interface for tontine storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Every write runs in a single transaction. Writes that take an existing
// tontine compare t.Version against the stored version and return ErrConflict
// on mismatch; on success t.Version is incremented.
type Store interface {
	// CreateTontine persists a new draft tontine with its roster.
	// Empty IDs and a zero CreatedAt are filled in by the store.
	CreateTontine(ctx context.Context, t *models.Tontine) error

	// GetTontine loads a tontine with its roster, rounds and payments.
	// Returns ErrNotFound if it does not exist.
	GetTontine(ctx context.Context, id string) (*models.Tontine, error)

	// ListTontines returns tontines (with roster, without rounds), newest first.
	// An empty status lists every tontine.
	ListTontines(ctx context.Context, status models.TontineStatus) ([]*models.Tontine, error)

	// SaveRoster replaces the stored roster with t.Members.
	// The stored tontine must still be a draft.
	SaveRoster(ctx context.Context, t *models.Tontine) error

	// LaunchTontine stores the launch of a draft tontine: status, start date,
	// deadline, and every round and payment. Either all of it is written or
	// none of it is. Empty round and payment IDs are filled in.
	LaunchTontine(ctx context.Context, t *models.Tontine) error

	// SaveLedger stores tontine status and deadline, round statuses and
	// payment states.
	SaveLedger(ctx context.Context, t *models.Tontine) error

	// Close releases any resources held by the store.
	Close() error
}
