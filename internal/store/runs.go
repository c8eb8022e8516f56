package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LabelRun records one labeling pass performed by SaveOrder.
type LabelRun struct {
	ID        int64         `json:"id"`
	Order     string        `json:"order"`
	Rows      int           `json:"rows"`
	Roots     int           `json:"roots"`
	MaxDepth  int           `json:"max_depth"`
	Detached  int           `json:"detached"`
	Duration  time.Duration `json:"duration"`
	CreatedAt string        `json:"created_at"`
}

func recordRun(ctx context.Context, tx *sql.Tx, order string, run LabelRun, at string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO label_runs (order_name, row_count, roots, max_depth, detached, duration_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order, run.Rows, run.Roots, run.MaxDepth, run.Detached, run.Duration.Microseconds(), at,
	)
	if err != nil {
		return fmt.Errorf("record label run for %s: %w", order, err)
	}
	return nil
}

// LabelRuns returns the most recent labeling passes of an order, newest first.
// A limit of 0 or less returns them all.
func (s *Store) LabelRuns(ctx context.Context, order string, limit int) ([]LabelRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_name, row_count, roots, max_depth, detached, duration_us, created_at
		 FROM label_runs WHERE order_name = ? ORDER BY id DESC LIMIT ?`, order, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load label runs of %s: %w", order, err)
	}
	defer rows.Close()

	var out []LabelRun
	for rows.Next() {
		var r LabelRun
		var us int64
		if err := rows.Scan(&r.ID, &r.Order, &r.Rows, &r.Roots, &r.MaxDepth, &r.Detached, &us, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan label run: %w", err)
		}
		r.Duration = time.Duration(us) * time.Microsecond
		out = append(out, r)
	}
	return out, rows.Err()
}
