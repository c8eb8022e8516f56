package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lthms/outline/internal/outline"
)

// SetCollapsed folds or unfolds the subtree below the given item.
func (s *Store) SetCollapsed(ctx context.Context, order, treeID string, collapsed bool) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM order_items WHERE order_name = ? AND tree_id = ?`, order, treeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s in %s", ErrItemNotFound, treeID, order)
	}
	if err != nil {
		return fmt.Errorf("check item %s: %w", treeID, err)
	}

	if collapsed {
		_, err = s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO collapsed_items (order_name, tree_id) VALUES (?, ?)`, order, treeID)
	} else {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM collapsed_items WHERE order_name = ? AND tree_id = ?`, order, treeID)
	}
	if err != nil {
		return fmt.Errorf("set collapsed %s: %w", treeID, err)
	}
	return nil
}

// Collapsed returns the fold state of an order.
func (s *Store) Collapsed(ctx context.Context, order string) (outline.Collapsed, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tree_id FROM collapsed_items WHERE order_name = ?`, order)
	if err != nil {
		return nil, fmt.Errorf("load collapsed items of %s: %w", order, err)
	}
	defer rows.Close()

	collapsed := outline.Collapsed{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan collapsed item: %w", err)
		}
		collapsed[id] = true
	}
	return collapsed, rows.Err()
}
