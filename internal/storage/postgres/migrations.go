package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS tontines (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    creator_id TEXT NOT NULL DEFAULT '',
    contribution NUMERIC(14, 3) NOT NULL CHECK (contribution > 0),
    frequency TEXT NOT NULL CHECK (frequency IN ('weekly', 'monthly')),
    total_members INTEGER NOT NULL CHECK (total_members >= 2),
    distribution_logic TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('draft', 'active', 'completed')),
    created_at TIMESTAMPTZ NOT NULL,
    start_date DATE,
    next_deadline DATE,
    version INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    tontine_id TEXT NOT NULL REFERENCES tontines(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    payout_order INTEGER NOT NULL,
    added_at TIMESTAMPTZ NOT NULL,
    UNIQUE (tontine_id, phone),
    UNIQUE (tontine_id, payout_order)
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    tontine_id TEXT NOT NULL REFERENCES tontines(id) ON DELETE CASCADE,
    round_number INTEGER NOT NULL,
    beneficiary_id TEXT NOT NULL,
    scheduled_date DATE NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('upcoming', 'current', 'completed')),
    UNIQUE (tontine_id, round_number)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    amount NUMERIC(14, 3) NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('pending', 'paid', 'late')),
    method TEXT NOT NULL DEFAULT '',
    declared_at TIMESTAMPTZ,
    confirmed_at TIMESTAMPTZ,
    confirmed_by TEXT NOT NULL DEFAULT '',
    UNIQUE (round_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_members_tontine_id ON members(tontine_id);
CREATE INDEX IF NOT EXISTS idx_rounds_tontine_id ON rounds(tontine_id);
CREATE INDEX IF NOT EXISTS idx_payments_round_id ON payments(round_id);
CREATE INDEX IF NOT EXISTS idx_tontines_status ON tontines(status);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
