package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lthms/outline/internal/outline"
)

// OrderSummary is one line of ListOrders.
type OrderSummary struct {
	Name      string `json:"name"`
	Customer  string `json:"customer"`
	Items     int    `json:"items"`
	UpdatedAt string `json:"updated_at"`
}

// SaveOrder labels the order's items and replaces the stored copy of the order
// in a single transaction. Ids, labels and depths are written back into o.
func (s *Store) SaveOrder(ctx context.Context, o *Order) error {
	if o.Name == "" {
		return ErrEmptyName
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", o.Name, err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (name, customer, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET customer = excluded.customer, updated_at = excluded.updated_at`,
		o.Name, o.Customer, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert order %s: %w", o.Name, err)
	}

	run := labelItems(o)

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_name = ?`, o.Name); err != nil {
		return fmt.Errorf("clear items of %s: %w", o.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_items
		 (order_name, tree_id, parent_tree_id, idx, indent, tree_label, item_code, description, qty, rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range o.Items {
		_, err := stmt.ExecContext(ctx,
			o.Name, it.ID, it.ParentID, it.Sequence, it.Depth, it.Label,
			it.ItemCode, it.Description, it.Qty, it.Rate,
		)
		if err != nil {
			return fmt.Errorf("insert item %s of %s: %w", it.ID, o.Name, err)
		}
	}

	// Forget fold state of items that no longer exist.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM collapsed_items WHERE order_name = ?
		 AND tree_id NOT IN (SELECT tree_id FROM order_items WHERE order_name = ?)`,
		o.Name, o.Name,
	)
	if err != nil {
		return fmt.Errorf("prune collapsed items of %s: %w", o.Name, err)
	}

	if err := recordRun(ctx, tx, o.Name, run, now); err != nil {
		return err
	}

	var createdAt string
	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM orders WHERE name = ?`, o.Name).Scan(&createdAt); err != nil {
		return fmt.Errorf("read created_at of %s: %w", o.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", o.Name, err)
	}

	o.CreatedAt = createdAt
	o.UpdatedAt = now
	slog.Debug("store: saved order", "order", o.Name, "rows", run.Rows, "roots", run.Roots, "maxDepth", run.MaxDepth)
	return nil
}

// labelItems runs the labeling pass over o's items and summarizes it.
func labelItems(o *Order) LabelRun {
	started := time.Now()
	outline.Label(o.Items)
	detached := outline.Detached(o.Items)
	run := LabelRun{
		Order:    o.Name,
		Rows:     len(o.Items),
		Detached: len(detached),
		Duration: time.Since(started),
	}

	unreached := make(map[*outline.Row]struct{}, len(detached))
	for _, it := range detached {
		unreached[&it.Row] = struct{}{}
	}
	for _, it := range o.Items {
		if _, ok := unreached[&it.Row]; ok {
			continue
		}
		if it.Depth == 0 {
			run.Roots++
		}
		run.MaxDepth = max(run.MaxDepth, it.Depth)
	}

	if len(detached) > 0 {
		ids := make([]string, len(detached))
		for i, it := range detached {
			ids[i] = it.ID
		}
		slog.Warn("store: items on a parent cycle keep their previous labels", "order", o.Name, "items", ids)
	}
	return run
}

// LoadOrder returns the named order with its items sorted by sequence.
func (s *Store) LoadOrder(ctx context.Context, name string) (*Order, error) {
	o := &Order{Name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT customer, created_at, updated_at FROM orders WHERE name = ?`, name,
	).Scan(&o.Customer, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tree_id, parent_tree_id, idx, indent, tree_label, item_code, description, qty, rate
		 FROM order_items WHERE order_name = ? ORDER BY idx, rowid`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("load items of %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(
			&it.ID, &it.ParentID, &it.Sequence, &it.Depth, &it.Label,
			&it.ItemCode, &it.Description, &it.Qty, &it.Rate,
		); err != nil {
			return nil, fmt.Errorf("scan item of %s: %w", name, err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items of %s: %w", name, err)
	}
	return o, nil
}

// ListOrders returns every stored order, by name.
func (s *Store) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.name, o.customer, o.updated_at, COUNT(i.tree_id)
		 FROM orders o LEFT JOIN order_items i ON i.order_name = o.name
		 GROUP BY o.name ORDER BY o.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var sum OrderSummary
		if err := rows.Scan(&sum.Name, &sum.Customer, &sum.UpdatedAt, &sum.Items); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteOrder removes an order, its items, fold state and label history.
func (s *Store) DeleteOrder(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", name, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, name)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM label_runs WHERE order_name = ?`, name); err != nil {
		return fmt.Errorf("delete label runs of %s: %w", name, err)
	}
	return tx.Commit()
}
