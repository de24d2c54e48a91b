// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps PRAGMAs and write transactions on one handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTontine persists a new tontine and its roster.
func (s *SQLiteStore) CreateTontine(ctx context.Context, t *models.Tontine) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = models.TontineDraft
	}
	t.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tontines (id, name, creator_id, contribution, frequency, total_members,
		 distribution_logic, status, created_at, start_date, next_deadline, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.CreatorID, t.Contribution.String(), string(t.Frequency), t.TotalMembers,
		string(t.DistributionLogic), string(t.Status), t.CreatedAt.Unix(),
		formatDate(t.StartDate), formatDate(t.NextDeadline), t.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tontine: %w", err)
	}

	if err := insertMembers(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTontine retrieves a tontine by ID with its roster, rounds and payments.
func (s *SQLiteStore) GetTontine(ctx context.Context, id string) (*models.Tontine, error) {
	t, err := scanTontine(s.db.QueryRowContext(ctx, selectTontine+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tontine %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tontine: %w", err)
	}

	if t.Members, err = s.loadMembers(ctx, t.ID); err != nil {
		return nil, err
	}
	if t.Rounds, err = s.loadRounds(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTontines retrieves tontines with their rosters, newest first.
func (s *SQLiteStore) ListTontines(ctx context.Context, status models.TontineStatus) ([]*models.Tontine, error) {
	query := selectTontine
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tontines: %w", err)
	}
	defer rows.Close()

	var tontines []*models.Tontine
	for rows.Next() {
		t, err := scanTontine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tontine: %w", err)
		}
		tontines = append(tontines, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tontines: %w", err)
	}
	rows.Close()

	for _, t := range tontines {
		if t.Members, err = s.loadMembers(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return tontines, nil
}

// SaveRoster replaces the roster of a draft tontine.
func (s *SQLiteStore) SaveRoster(ctx context.Context, t *models.Tontine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE tontines SET version = version + 1 WHERE id = ? AND version = ? AND status = 'draft'",
		t.ID, t.Version,
	)
	if err := checkVersioned(ctx, tx, res, err, t.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE tontine_id = ?", t.ID); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	if err := insertMembers(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.Version++
	return nil
}

// LaunchTontine flips a draft tontine to active and materializes its rounds.
func (s *SQLiteStore) LaunchTontine(ctx context.Context, t *models.Tontine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tontines SET status = ?, start_date = ?, next_deadline = ?, version = version + 1
		 WHERE id = ? AND version = ? AND status = 'draft'`,
		string(t.Status), formatDate(t.StartDate), formatDate(t.NextDeadline), t.ID, t.Version,
	)
	if err := checkVersioned(ctx, tx, res, err, t.ID); err != nil {
		return err
	}

	for i := range t.Rounds {
		r := &t.Rounds[i]
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		r.TontineID = t.ID

		_, err := tx.ExecContext(ctx,
			`INSERT INTO rounds (id, tontine_id, round_number, beneficiary_id, scheduled_date, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.TontineID, r.RoundNumber, r.BeneficiaryID, formatDate(r.ScheduledDate), string(r.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert round %d: %w", r.RoundNumber, err)
		}

		for j := range r.Payments {
			p := &r.Payments[j]
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			p.RoundID = r.ID

			_, err := tx.ExecContext(ctx,
				`INSERT INTO payments (id, round_id, member_id, amount, status, method, declared_at, confirmed_at, confirmed_by)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.RoundID, p.MemberID, p.Amount.String(), string(p.Status), string(p.Method),
				formatTimestamp(p.DeclaredAt), formatTimestamp(p.ConfirmedAt), p.ConfirmedBy,
			)
			if err != nil {
				return fmt.Errorf("failed to insert payment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.Version++
	return nil
}

// SaveLedger stores the tontine status, round statuses and payment states.
func (s *SQLiteStore) SaveLedger(ctx context.Context, t *models.Tontine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tontines SET status = ?, next_deadline = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		string(t.Status), formatDate(t.NextDeadline), t.ID, t.Version,
	)
	if err := checkVersioned(ctx, tx, res, err, t.ID); err != nil {
		return err
	}

	for _, r := range t.Rounds {
		if _, err := tx.ExecContext(ctx,
			"UPDATE rounds SET status = ? WHERE id = ?",
			string(r.Status), r.ID,
		); err != nil {
			return fmt.Errorf("failed to update round %d: %w", r.RoundNumber, err)
		}

		for _, p := range r.Payments {
			if _, err := tx.ExecContext(ctx,
				`UPDATE payments SET status = ?, method = ?, declared_at = ?, confirmed_at = ?, confirmed_by = ?
				 WHERE id = ?`,
				string(p.Status), string(p.Method), formatTimestamp(p.DeclaredAt),
				formatTimestamp(p.ConfirmedAt), p.ConfirmedBy, p.ID,
			); err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.Version++
	return nil
}

// checkVersioned turns a zero-row versioned update into ErrNotFound or ErrConflict.
func checkVersioned(ctx context.Context, tx *sql.Tx, res sql.Result, err error, id string) error {
	if err != nil {
		return fmt.Errorf("failed to update tontine: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM tontines WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("tontine %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check tontine existence: %w", err)
	}
	return fmt.Errorf("tontine %s: %w", id, storage.ErrConflict)
}

func insertMembers(ctx context.Context, tx *sql.Tx, t *models.Tontine) error {
	for i := range t.Members {
		m := &t.Members[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.AddedAt.IsZero() {
			m.AddedAt = time.Now().UTC()
		}
		m.TontineID = t.ID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO members (id, tontine_id, name, phone, payout_order, added_at) VALUES (?, ?, ?, ?, ?, ?)",
			m.ID, m.TontineID, m.Name, m.Phone, m.PayoutOrder, m.AddedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

const selectTontine = `SELECT id, name, creator_id, contribution, frequency, total_members,
	distribution_logic, status, created_at, start_date, next_deadline, version FROM tontines`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTontine(row rowScanner) (*models.Tontine, error) {
	t := &models.Tontine{}
	var (
		contribution, frequency, logic, status string
		createdAt                              int64
		startDate, nextDeadline                sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &t.CreatorID, &contribution, &frequency, &t.TotalMembers,
		&logic, &status, &createdAt, &startDate, &nextDeadline, &t.Version)
	if err != nil {
		return nil, err
	}

	if t.Contribution, err = decimal.NewFromString(contribution); err != nil {
		return nil, fmt.Errorf("invalid contribution %q: %w", contribution, err)
	}
	t.Frequency = models.Frequency(frequency)
	t.DistributionLogic = models.DistributionLogic(logic)
	t.Status = models.TontineStatus(status)
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	if t.StartDate, err = parseDate(startDate); err != nil {
		return nil, err
	}
	if t.NextDeadline, err = parseDate(nextDeadline); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, tontineID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, tontine_id, name, phone, payout_order, added_at FROM members WHERE tontine_id = ? ORDER BY payout_order",
		tontineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var addedAt int64
		if err := rows.Scan(&m.ID, &m.TontineID, &m.Name, &m.Phone, &m.PayoutOrder, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.AddedAt = time.Unix(addedAt, 0).UTC()
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

func (s *SQLiteStore) loadRounds(ctx context.Context, tontineID string) ([]models.Round, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, tontine_id, round_number, beneficiary_id, scheduled_date, status FROM rounds WHERE tontine_id = ? ORDER BY round_number",
		tontineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.Round
	index := make(map[string]int)
	for rows.Next() {
		var r models.Round
		var scheduled, status string
		if err := rows.Scan(&r.ID, &r.TontineID, &r.RoundNumber, &r.BeneficiaryID, &scheduled, &status); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		if r.ScheduledDate, err = time.Parse(time.DateOnly, scheduled); err != nil {
			return nil, fmt.Errorf("invalid scheduled date %q: %w", scheduled, err)
		}
		r.Status = models.RoundStatus(status)
		index[r.ID] = len(rounds)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}
	rows.Close()

	payRows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.round_id, p.member_id, p.amount, p.status, p.method, p.declared_at, p.confirmed_at, p.confirmed_by
		 FROM payments p JOIN rounds r ON r.id = p.round_id
		 LEFT JOIN members m ON m.id = p.member_id
		 WHERE r.tontine_id = ?
		 ORDER BY r.round_number, m.payout_order`,
		tontineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer payRows.Close()

	for payRows.Next() {
		var p models.Payment
		var amount, status, method string
		var declaredAt, confirmedAt sql.NullInt64
		if err := payRows.Scan(&p.ID, &p.RoundID, &p.MemberID, &amount, &status, &method,
			&declaredAt, &confirmedAt, &p.ConfirmedBy); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid payment amount %q: %w", amount, err)
		}
		p.Status = models.PaymentStatus(status)
		p.Method = models.PaymentMethod(method)
		p.DeclaredAt = parseTimestamp(declaredAt)
		p.ConfirmedAt = parseTimestamp(confirmedAt)

		i := index[p.RoundID]
		rounds[i].Payments = append(rounds[i].Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return rounds, nil
}

func formatDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.DateOnly)
}

func parseDate(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s.String, err)
	}
	return t, nil
}

func formatTimestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func parseTimestamp(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
