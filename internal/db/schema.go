package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    title TEXT,
    platform TEXT,
    is_group INTEGER,
    language TEXT,
    participants TEXT,
    message_count INTEGER,
    first_ts INTEGER,
    last_ts INTEGER
);

CREATE TABLE IF NOT EXISTS analysis_runs (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    started_at TEXT,
    completed_at TEXT,
    report TEXT
);

CREATE TABLE IF NOT EXISTS person_summaries (
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    messages INTEGER,
    words INTEGER,
    initiations INTEGER,
    median_response_ms REAL,
    interest REAL,
    ghost_risk REAL
);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
