// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and runs migrations.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	// Poolers such as PgBouncer in transaction mode reject cached statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateTontine persists a new tontine and its roster.
func (s *PostgresStore) CreateTontine(ctx context.Context, t *models.Tontine) error {
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

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO tontines (id, name, creator_id, contribution, frequency, total_members,
				distribution_logic, status, created_at, start_date, next_deadline, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			t.ID, t.Name, t.CreatorID, t.Contribution.String(), string(t.Frequency), t.TotalMembers,
			string(t.DistributionLogic), string(t.Status), t.CreatedAt,
			toDate(t.StartDate), toDate(t.NextDeadline), t.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tontine: %w", err)
		}
		return insertMembers(ctx, tx, t)
	})
}

// GetTontine retrieves a tontine by ID with its roster, rounds and payments.
func (s *PostgresStore) GetTontine(ctx context.Context, id string) (*models.Tontine, error) {
	t, err := scanTontine(s.pool.QueryRow(ctx, selectTontine+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
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
func (s *PostgresStore) ListTontines(ctx context.Context, status models.TontineStatus) ([]*models.Tontine, error) {
	query := selectTontine
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tontines: %w", err)
	}
	tontines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Tontine, error) {
		return scanTontine(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tontines: %w", err)
	}

	for _, t := range tontines {
		if t.Members, err = s.loadMembers(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return tontines, nil
}

// SaveRoster replaces the roster of a draft tontine.
func (s *PostgresStore) SaveRoster(ctx context.Context, t *models.Tontine) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE tontines SET version = version + 1 WHERE id = $1 AND version = $2 AND status = 'draft'",
			t.ID, t.Version,
		)
		if err := checkVersioned(ctx, tx, tag, err, t.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM members WHERE tontine_id = $1", t.ID); err != nil {
			return fmt.Errorf("failed to clear roster: %w", err)
		}
		return insertMembers(ctx, tx, t)
	})
	if err != nil {
		return err
	}
	t.Version++
	return nil
}

// LaunchTontine flips a draft tontine to active and materializes its rounds.
func (s *PostgresStore) LaunchTontine(ctx context.Context, t *models.Tontine) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE tontines SET status = $1, start_date = $2, next_deadline = $3, version = version + 1
			WHERE id = $4 AND version = $5 AND status = 'draft'`,
			string(t.Status), toDate(t.StartDate), toDate(t.NextDeadline), t.ID, t.Version,
		)
		if err := checkVersioned(ctx, tx, tag, err, t.ID); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i := range t.Rounds {
			r := &t.Rounds[i]
			if r.ID == "" {
				r.ID = uuid.New().String()
			}
			r.TontineID = t.ID
			batch.Queue(`
				INSERT INTO rounds (id, tontine_id, round_number, beneficiary_id, scheduled_date, status)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				r.ID, r.TontineID, r.RoundNumber, r.BeneficiaryID, toDate(r.ScheduledDate), string(r.Status),
			)

			for j := range r.Payments {
				p := &r.Payments[j]
				if p.ID == "" {
					p.ID = uuid.New().String()
				}
				p.RoundID = r.ID
				batch.Queue(`
					INSERT INTO payments (id, round_id, member_id, amount, status, method, declared_at, confirmed_at, confirmed_by)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
					p.ID, p.RoundID, p.MemberID, p.Amount.String(), string(p.Status), string(p.Method),
					toTimestamp(p.DeclaredAt), toTimestamp(p.ConfirmedAt), p.ConfirmedBy,
				)
			}
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert rounds: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	t.Version++
	return nil
}

// SaveLedger stores the tontine status, round statuses and payment states.
func (s *PostgresStore) SaveLedger(ctx context.Context, t *models.Tontine) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE tontines SET status = $1, next_deadline = $2, version = version + 1
			WHERE id = $3 AND version = $4`,
			string(t.Status), toDate(t.NextDeadline), t.ID, t.Version,
		)
		if err := checkVersioned(ctx, tx, tag, err, t.ID); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, r := range t.Rounds {
			batch.Queue("UPDATE rounds SET status = $1 WHERE id = $2", string(r.Status), r.ID)
			for _, p := range r.Payments {
				batch.Queue(`
					UPDATE payments SET status = $1, method = $2, declared_at = $3, confirmed_at = $4, confirmed_by = $5
					WHERE id = $6`,
					string(p.Status), string(p.Method), toTimestamp(p.DeclaredAt),
					toTimestamp(p.ConfirmedAt), p.ConfirmedBy, p.ID,
				)
			}
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to update ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	t.Version++
	return nil
}

func checkVersioned(ctx context.Context, tx pgx.Tx, tag pgconn.CommandTag, err error, id string) error {
	if err != nil {
		return fmt.Errorf("failed to update tontine: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists int
	err = tx.QueryRow(ctx, "SELECT 1 FROM tontines WHERE id = $1", id).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("tontine %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check tontine existence: %w", err)
	}
	return fmt.Errorf("tontine %s: %w", id, storage.ErrConflict)
}

func insertMembers(ctx context.Context, tx pgx.Tx, t *models.Tontine) error {
	for i := range t.Members {
		m := &t.Members[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.AddedAt.IsZero() {
			m.AddedAt = time.Now().UTC()
		}
		m.TontineID = t.ID

		_, err := tx.Exec(ctx,
			"INSERT INTO members (id, tontine_id, name, phone, payout_order, added_at) VALUES ($1, $2, $3, $4, $5, $6)",
			m.ID, m.TontineID, m.Name, m.Phone, m.PayoutOrder, m.AddedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

const selectTontine = `SELECT id, name, creator_id, contribution::text, frequency, total_members,
	distribution_logic, status, created_at, start_date, next_deadline, version FROM tontines`

func scanTontine(row pgx.Row) (*models.Tontine, error) {
	t := &models.Tontine{}
	var (
		contribution, frequency, logic, status string
		startDate, nextDeadline                pgtype.Date
	)
	err := row.Scan(&t.ID, &t.Name, &t.CreatorID, &contribution, &frequency, &t.TotalMembers,
		&logic, &status, &t.CreatedAt, &startDate, &nextDeadline, &t.Version)
	if err != nil {
		return nil, err
	}

	if t.Contribution, err = decimal.NewFromString(contribution); err != nil {
		return nil, fmt.Errorf("invalid contribution %q: %w", contribution, err)
	}
	t.Frequency = models.Frequency(frequency)
	t.DistributionLogic = models.DistributionLogic(logic)
	t.Status = models.TontineStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.StartDate = fromDate(startDate)
	t.NextDeadline = fromDate(nextDeadline)
	return t, nil
}

func (s *PostgresStore) loadMembers(ctx context.Context, tontineID string) ([]models.Member, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, tontine_id, name, phone, payout_order, added_at FROM members WHERE tontine_id = $1 ORDER BY payout_order",
		tontineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Member, error) {
		var m models.Member
		err := row.Scan(&m.ID, &m.TontineID, &m.Name, &m.Phone, &m.PayoutOrder, &m.AddedAt)
		m.AddedAt = m.AddedAt.UTC()
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	return members, nil
}

func (s *PostgresStore) loadRounds(ctx context.Context, tontineID string) ([]models.Round, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, tontine_id, round_number, beneficiary_id, scheduled_date, status FROM rounds WHERE tontine_id = $1 ORDER BY round_number",
		tontineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	rounds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Round, error) {
		var r models.Round
		var scheduled pgtype.Date
		var status string
		err := row.Scan(&r.ID, &r.TontineID, &r.RoundNumber, &r.BeneficiaryID, &scheduled, &status)
		r.ScheduledDate = fromDate(scheduled)
		r.Status = models.RoundStatus(status)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rounds: %w", err)
	}

	index := make(map[string]int, len(rounds))
	for i, r := range rounds {
		index[r.ID] = i
	}

	payRows, err := s.pool.Query(ctx, `
		SELECT p.id, p.round_id, p.member_id, p.amount::text, p.status, p.method,
			p.declared_at, p.confirmed_at, p.confirmed_by
		FROM payments p JOIN rounds r ON r.id = p.round_id
		LEFT JOIN members m ON m.id = p.member_id
		WHERE r.tontine_id = $1
		ORDER BY r.round_number, m.payout_order`,
		tontineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	payments, err := pgx.CollectRows(payRows, func(row pgx.CollectableRow) (models.Payment, error) {
		var p models.Payment
		var amount, status, method string
		var declaredAt, confirmedAt pgtype.Timestamptz
		if err := row.Scan(&p.ID, &p.RoundID, &p.MemberID, &amount, &status, &method,
			&declaredAt, &confirmedAt, &p.ConfirmedBy); err != nil {
			return p, err
		}
		var err error
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return p, fmt.Errorf("invalid payment amount %q: %w", amount, err)
		}
		p.Status = models.PaymentStatus(status)
		p.Method = models.PaymentMethod(method)
		p.DeclaredAt = fromTimestamp(declaredAt)
		p.ConfirmedAt = fromTimestamp(confirmedAt)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments: %w", err)
	}

	for _, p := range payments {
		i := index[p.RoundID]
		rounds[i].Payments = append(rounds[i].Payments, p)
	}
	return rounds, nil
}

func toDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: !t.IsZero()}
}

func fromDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func toTimestamp(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func fromTimestamp(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
