package export

import (
	"database/sql"
	"fmt"

	"github.com/suykerbuyk/aiscope/internal/cachelog"
)

// Stats reports what an export wrote.
type Stats struct {
	Records int
	Windows int
}

// Write replaces the contents of the database at dbPath with recs. Record
// ids follow log order starting at 1.
func Write(dbPath string, recs []cachelog.Record) (Stats, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return Stats{}, err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM windows`); err != nil {
		return Stats{}, fmt.Errorf("clear windows: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return Stats{}, fmt.Errorf("clear records: %w", err)
	}

	var st Stats
	for i, rec := range recs {
		id := int64(i + 1)
		r := rec.Result
		if _, err := tx.Exec(
			`INSERT INTO records(id, content_hash, filename, timestamp, fraction_ai, fraction_ai_assisted, fraction_human, text) VALUES(?,?,?,?,?,?,?,?)`,
			id, rec.ContentHash, rec.Filename, rec.Timestamp,
			r.FractionAI, r.FractionAIAssisted, r.FractionHuman, r.Text,
		); err != nil {
			return Stats{}, fmt.Errorf("insert record %d: %w", id, err)
		}
		st.Records++

		for j, w := range r.Windows {
			if _, err := tx.Exec(
				`INSERT INTO windows(record_id, idx, start_index, end_index, score, label, confidence) VALUES(?,?,?,?,?,?,?)`,
				id, j, w.StartIndex, w.EndIndex, w.Score, string(w.Label), string(w.Confidence),
			); err != nil {
				return Stats{}, fmt.Errorf("insert window %d of record %d: %w", j, id, err)
			}
			st.Windows++
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit tx: %w", err)
	}
	return st, nil
}

// CountRows returns the number of rows in table.
func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	switch table {
	case "records", "windows":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
