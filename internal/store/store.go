// Package store persists sales orders and their tree-shaped line items in
// SQLite. Labels are recomputed on every save so that what is stored always
// matches the current parent references and sequences.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lthms/outline/internal/outline"

	_ "modernc.org/sqlite"
)

var (
	// ErrOrderNotFound is returned when no order has the requested name.
	ErrOrderNotFound = errors.New("order not found")
	// ErrItemNotFound is returned when an order has no item with the given tree id.
	ErrItemNotFound = errors.New("item not found")
	// ErrEmptyName is returned when saving an order without a name.
	ErrEmptyName = errors.New("order name must not be empty")
)

// Item is one line of a sales order.
type Item struct {
	outline.Row
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description,omitempty"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
}

// Amount is qty times rate.
func (it *Item) Amount() float64 {
	return it.Qty * it.Rate
}

// Order is a sales order with its items in stored order.
type Order struct {
	Name      string  `json:"name"`
	Customer  string  `json:"customer,omitempty"`
	Items     []*Item `json:"items"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// Find returns the item with the given tree id, or nil.
func (o *Order) Find(id string) *Item {
	for _, it := range o.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Store provides order storage backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the order database at the given path.
func Open(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open order db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate order db: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
