package db

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS brackets (
	id                TEXT PRIMARY KEY,
	tournament_id     TEXT,
	format            TEXT NOT NULL,
	participant_count INTEGER NOT NULL CHECK (participant_count >= 2),
	bracket_size      INTEGER NOT NULL,
	bye_count         INTEGER NOT NULL CHECK (bye_count >= 0),
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS brackets_tournament_id_idx ON brackets (tournament_id);

CREATE TABLE IF NOT EXISTS bracket_participants (
	bracket_id     TEXT NOT NULL REFERENCES brackets (id) ON DELETE CASCADE,
	id             TEXT NOT NULL,
	name           TEXT NOT NULL,
	seed           INTEGER,
	is_placeholder BOOLEAN NOT NULL DEFAULT TRUE,
	PRIMARY KEY (bracket_id, id)
);

CREATE TABLE IF NOT EXISTS bracket_matches (
	bracket_id       TEXT NOT NULL REFERENCES brackets (id) ON DELETE CASCADE,
	id               TEXT NOT NULL,
	round            INTEGER NOT NULL CHECK (round >= 1),
	match_number     INTEGER NOT NULL,
	bracket          TEXT NOT NULL,
	position         INTEGER NOT NULL,
	participant1_id  TEXT,
	participant2_id  TEXT,
	score1           INTEGER NOT NULL DEFAULT 0 CHECK (score1 >= 0),
	score2           INTEGER NOT NULL DEFAULT 0 CHECK (score2 >= 0),
	status           TEXT NOT NULL,
	winner_id        TEXT,
	next_match_id    TEXT,
	next_match_slot  SMALLINT CHECK (next_match_slot IN (1, 2)),
	loser_match_id   TEXT,
	loser_match_slot SMALLINT CHECK (loser_match_slot IN (1, 2)),
	PRIMARY KEY (bracket_id, id),
	CONSTRAINT bracket_matches_number_key UNIQUE (bracket_id, match_number),
	CONSTRAINT bracket_matches_participant1_fkey FOREIGN KEY (bracket_id, participant1_id)
		REFERENCES bracket_participants (bracket_id, id),
	CONSTRAINT bracket_matches_participant2_fkey FOREIGN KEY (bracket_id, participant2_id)
		REFERENCES bracket_participants (bracket_id, id)
);
`

// Migrate creates the bracket tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
