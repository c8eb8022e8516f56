package store

import (
	"database/sql"
	"fmt"
)

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			name       TEXT PRIMARY KEY,
			customer   TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		// One row per line item; tree_id/parent_tree_id carry the hierarchy
		`CREATE TABLE IF NOT EXISTS order_items (
			order_name     TEXT NOT NULL REFERENCES orders(name) ON DELETE CASCADE,
			tree_id        TEXT NOT NULL,
			parent_tree_id TEXT NOT NULL DEFAULT '',
			idx            INTEGER NOT NULL DEFAULT 0,
			indent         INTEGER NOT NULL DEFAULT 0,
			tree_label     TEXT NOT NULL DEFAULT '',
			item_code      TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			qty            REAL NOT NULL DEFAULT 0,
			rate           REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (order_name, tree_id)
		)`,

		`CREATE INDEX IF NOT EXISTS order_items_idx ON order_items (order_name, idx)`,

		// Folded subtrees, per order
		`CREATE TABLE IF NOT EXISTS collapsed_items (
			order_name TEXT NOT NULL REFERENCES orders(name) ON DELETE CASCADE,
			tree_id    TEXT NOT NULL,
			PRIMARY KEY (order_name, tree_id)
		)`,

		// One row per labeling pass
		`CREATE TABLE IF NOT EXISTS label_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			order_name  TEXT NOT NULL,
			row_count   INTEGER NOT NULL DEFAULT 0,
			roots       INTEGER NOT NULL DEFAULT 0,
			max_depth   INTEGER NOT NULL DEFAULT 0,
			detached    INTEGER NOT NULL DEFAULT 0,
			duration_us INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", truncate(s, 60), err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
