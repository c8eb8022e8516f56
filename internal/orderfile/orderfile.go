// Package orderfile reads and writes sales orders as YAML.
//
// Items can be written nested, with children listed under their parent, or
// flat, with explicit tree_id and parent_tree_id fields. Both forms can be
// mixed in one file.
package orderfile

import (
	"errors"
	"fmt"

	"github.com/lthms/outline/internal/outline"
	"github.com/lthms/outline/internal/store"
	"gopkg.in/yaml.v3"
)

// ErrNoOrder is returned when a file does not name its order.
var ErrNoOrder = errors.New("order name is missing")

// File is the YAML document layout.
type File struct {
	Order    string  `yaml:"order"`
	Customer string  `yaml:"customer,omitempty"`
	Items    []Entry `yaml:"items"`
}

// Entry is one item of a File.
type Entry struct {
	TreeID       string  `yaml:"tree_id,omitempty"`
	ParentTreeID string  `yaml:"parent_tree_id,omitempty"`
	Idx          *int    `yaml:"idx,omitempty"`
	Indent       int     `yaml:"indent,omitempty"`
	TreeLabel    string  `yaml:"tree_label,omitempty"`
	ItemCode     string  `yaml:"item_code"`
	Description  string  `yaml:"description,omitempty"`
	Qty          float64 `yaml:"qty,omitempty"`
	Rate         float64 `yaml:"rate,omitempty"`
	Children     []Entry `yaml:"children,omitempty"`
}

// Parse decodes a YAML order. Nested children are flattened after their
// parent and point at it; items without idx are numbered by file position.
func Parse(data []byte) (*store.Order, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse order file: %w", err)
	}
	if f.Order == "" {
		return nil, ErrNoOrder
	}

	p := &parser{order: &store.Order{Name: f.Order, Customer: f.Customer}, seen: map[string]bool{}}
	if err := p.flatten(f.Items, ""); err != nil {
		return nil, err
	}
	return p.order, nil
}

type parser struct {
	order *store.Order
	seen  map[string]bool
	pos   int
}

func (p *parser) flatten(entries []Entry, parentID string) error {
	for _, e := range entries {
		p.pos++
		if e.ItemCode == "" {
			return fmt.Errorf("item %d: item_code is required", p.pos)
		}

		id := e.TreeID
		if id == "" && len(e.Children) > 0 {
			id = outline.NewID()
		}
		if id != "" {
			if p.seen[id] {
				return fmt.Errorf("item %d: duplicate tree_id %q", p.pos, id)
			}
			p.seen[id] = true
		}

		parent := e.ParentTreeID
		if parentID != "" {
			parent = parentID
		}

		seq := p.pos
		if e.Idx != nil {
			seq = *e.Idx
		}

		p.order.Items = append(p.order.Items, &store.Item{
			Row: outline.Row{
				ID:       id,
				ParentID: parent,
				Sequence: seq,
				Depth:    e.Indent,
				Label:    e.TreeLabel,
			},
			ItemCode:    e.ItemCode,
			Description: e.Description,
			Qty:         e.Qty,
			Rate:        e.Rate,
		})

		if err := p.flatten(e.Children, id); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes an order as flat YAML, one entry per item in stored order.
func Marshal(o *store.Order) ([]byte, error) {
	f := File{Order: o.Name, Customer: o.Customer, Items: make([]Entry, 0, len(o.Items))}
	for _, it := range o.Items {
		idx := it.Sequence
		f.Items = append(f.Items, Entry{
			TreeID:       it.ID,
			ParentTreeID: it.ParentID,
			Idx:          &idx,
			Indent:       it.Depth,
			TreeLabel:    it.Label,
			ItemCode:     it.ItemCode,
			Description:  it.Description,
			Qty:          it.Qty,
			Rate:         it.Rate,
		})
	}

	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode order %s: %w", o.Name, err)
	}
	return out, nil
}
