package sqlite

import "database/sql"

// schema sets up the database on startup. Amounts are stored as decimal
// strings, dates as YYYY-MM-DD and timestamps as Unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS tontines (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    creator_id TEXT NOT NULL DEFAULT '',
    contribution TEXT NOT NULL,
    frequency TEXT NOT NULL CHECK (frequency IN ('weekly', 'monthly')),
    total_members INTEGER NOT NULL CHECK (total_members >= 2),
    distribution_logic TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('draft', 'active', 'completed')),
    created_at INTEGER NOT NULL,
    start_date TEXT,
    next_deadline TEXT,
    version INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    tontine_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    payout_order INTEGER NOT NULL,
    added_at INTEGER NOT NULL,
    UNIQUE (tontine_id, phone),
    UNIQUE (tontine_id, payout_order),
    FOREIGN KEY (tontine_id) REFERENCES tontines(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    tontine_id TEXT NOT NULL,
    round_number INTEGER NOT NULL,
    beneficiary_id TEXT NOT NULL,
    scheduled_date TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('upcoming', 'current', 'completed')),
    UNIQUE (tontine_id, round_number),
    FOREIGN KEY (tontine_id) REFERENCES tontines(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('pending', 'paid', 'late')),
    method TEXT NOT NULL DEFAULT '',
    declared_at INTEGER,
    confirmed_at INTEGER,
    confirmed_by TEXT NOT NULL DEFAULT '',
    UNIQUE (round_id, member_id),
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_members_tontine_id ON members(tontine_id);
CREATE INDEX IF NOT EXISTS idx_rounds_tontine_id ON rounds(tontine_id);
CREATE INDEX IF NOT EXISTS idx_payments_round_id ON payments(round_id);
CREATE INDEX IF NOT EXISTS idx_tontines_status ON tontines(status);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
