package export

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY,
    content_hash TEXT NOT NULL,
    filename TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    fraction_ai REAL NOT NULL,
    fraction_ai_assisted REAL NOT NULL,
    fraction_human REAL NOT NULL,
    text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS windows (
    record_id INTEGER NOT NULL REFERENCES records(id),
    idx INTEGER NOT NULL,
    start_index INTEGER NOT NULL,
    end_index INTEGER NOT NULL,
    score REAL NOT NULL,
    label TEXT NOT NULL,
    confidence TEXT NOT NULL,
    PRIMARY KEY (record_id, idx)
);

CREATE INDEX IF NOT EXISTS records_filename ON records(filename, timestamp);
`

// Open opens or creates the SQLite database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
