package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/aliasrunner/internal/models"
)

// DefaultLimit is used when Recent is called with a non-positive limit.
const DefaultLimit = 20

// Record stores one run and returns its id. A zero StartedAt is set to now.
func (db *DB) Record(r models.Run) (int64, error) {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	args := r.Args
	if args == nil {
		args = []string{}
	}
	argsJSON, _ := json.Marshal(args)

	res, err := db.conn.Exec(`
		INSERT INTO runs (name, body, args, exit_code, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Name, r.Body, string(argsJSON), r.ExitCode, r.StartedAt.UTC(), r.DurationMS)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first. A non-empty name restricts
// the result to runs of that alias.
func (db *DB) Recent(limit int, name string) ([]models.Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := `SELECT id, name, body, args, exit_code, started_at, duration_ms FROM runs`
	args := []any{}
	if name != "" {
		q += ` WHERE name = ?`
		args = append(args, name)
	}
	q += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	out := []models.Run{}
	for rows.Next() {
		var (
			r       models.Run
			argsRaw string
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Body, &argsRaw, &r.ExitCode, &r.StartedAt, &r.DurationMS); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(argsRaw), &r.Args)
		out = append(out, r)
	}
	return out, rows.Err()
}
