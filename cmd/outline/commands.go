package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/lthms/outline/internal/orderfile"
	"github.com/lthms/outline/internal/outline"
	"github.com/lthms/outline/internal/store"
)

// saveOrder is the save pipeline: items are put in tree order, then the store
// labels and writes them.
func saveOrder(ctx context.Context, st *store.Store, o *store.Order) error {
	if items, changed := outline.Normalize(o.Items); changed {
		slog.Debug("save: items reordered into tree order", "order", o.Name)
		o.Items = items
	}
	return st.SaveOrder(ctx, o)
}

// ImportCmd loads an order from YAML and saves it.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML order file."`
}

// Run imports the file, replacing any stored order with the same name.
func (cmd *ImportCmd) Run(app *App) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.File, err)
	}
	o, err := orderfile.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.File, err)
	}

	st, err := app.Store()
	if err != nil {
		return err
	}
	if err := saveOrder(context.Background(), st, o); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "imported %s: %d items\n", o.Name, len(o.Items))
	return nil
}

// ShowCmd prints an order.
type ShowCmd struct {
	Order string `arg:"" help:"Order name."`
	JSON  bool   `help:"Print the order as JSON." name:"json"`
	All   bool   `short:"a" help:"Ignore folded items."`
}

// Run prints the stored order.
func (cmd *ShowCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store()
	if err != nil {
		return err
	}
	o, err := st.LoadOrder(ctx, cmd.Order)
	if err != nil {
		return err
	}

	if cmd.JSON {
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	}

	collapsed := outline.Collapsed{}
	if !cmd.All {
		if collapsed, err = st.Collapsed(ctx, cmd.Order); err != nil {
			return err
		}
	}
	return renderOrder(app.Out, o, collapsed, renderOptions{
		Indent: app.Config.Display.Indent,
		Width:  outputWidth(app.Config.Display.Width),
	})
}

// AddChildCmd adds an item under a parent item.
type AddChildCmd struct {
	Order       string  `arg:"" help:"Order name."`
	Parent      string  `arg:"" help:"Tree id or label of the parent item."`
	Item        string  `required:"" help:"Item code."`
	Qty         float64 `default:"1" help:"Quantity."`
	Rate        float64 `help:"Unit rate."`
	Description string  `help:"Free-text description."`
}

// Run appends the item as the last child of the parent and saves the order.
func (cmd *AddChildCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store()
	if err != nil {
		return err
	}
	o, err := st.LoadOrder(ctx, cmd.Order)
	if err != nil {
		return err
	}

	parent := resolveItem(o, cmd.Parent)
	if parent == nil {
		return fmt.Errorf("%w: %s in %s", store.ErrItemNotFound, cmd.Parent, cmd.Order)
	}

	child := &store.Item{ItemCode: cmd.Item, Qty: cmd.Qty, Rate: cmd.Rate, Description: cmd.Description}
	items, err := outline.AddChild(o.Items, parent.ID, child)
	if err != nil {
		return err
	}
	o.Items = items

	if err := saveOrder(ctx, st, o); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%s %s\n", child.Label, child.ID)
	return nil
}

// resolveItem finds an item by tree id, then by label.
func resolveItem(o *store.Order, ref string) *store.Item {
	if it := o.Find(ref); it != nil {
		return it
	}
	for _, it := range o.Items {
		if it.Label == ref {
			return it
		}
	}
	return nil
}

// CollapseCmd folds an item.
type CollapseCmd struct {
	Order string `arg:"" help:"Order name."`
	Item  string `arg:"" help:"Tree id or label of the item."`
}

// Run folds the item's subtree.
func (cmd *CollapseCmd) Run(app *App) error {
	return setCollapsed(app, cmd.Order, cmd.Item, true)
}

// ExpandCmd unfolds an item.
type ExpandCmd struct {
	Order string `arg:"" help:"Order name."`
	Item  string `arg:"" help:"Tree id or label of the item."`
}

// Run unfolds the item's subtree.
func (cmd *ExpandCmd) Run(app *App) error {
	return setCollapsed(app, cmd.Order, cmd.Item, false)
}

func setCollapsed(app *App, order, ref string, collapsed bool) error {
	ctx := context.Background()
	st, err := app.Store()
	if err != nil {
		return err
	}
	o, err := st.LoadOrder(ctx, order)
	if err != nil {
		return err
	}
	it := resolveItem(o, ref)
	if it == nil {
		return fmt.Errorf("%w: %s in %s", store.ErrItemNotFound, ref, order)
	}
	if collapsed && !outline.HasChildren(o.Items, it.ID) {
		slog.Warn("collapse: item has no children", "order", order, "item", it.ID)
	}
	return st.SetCollapsed(ctx, order, it.ID, collapsed)
}

// RelabelCmd recomputes the labels of a stored order.
type RelabelCmd struct {
	Order string `arg:"" help:"Order name."`
}

// Run loads and re-saves the order.
func (cmd *RelabelCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store()
	if err != nil {
		return err
	}
	o, err := st.LoadOrder(ctx, cmd.Order)
	if err != nil {
		return err
	}
	if err := saveOrder(ctx, st, o); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "relabeled %s: %d items\n", o.Name, len(o.Items))
	return nil
}

// ExportCmd writes an order as YAML.
type ExportCmd struct {
	Order  string `arg:"" help:"Order name."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

// Run exports the stored order.
func (cmd *ExportCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	o, err := st.LoadOrder(context.Background(), cmd.Order)
	if err != nil {
		return err
	}
	data, err := orderfile.Marshal(o)
	if err != nil {
		return err
	}
	if cmd.Output == "" {
		_, err = app.Out.Write(data)
		return err
	}
	if err := os.WriteFile(cmd.Output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", cmd.Output, err)
	}
	return nil
}

// ListCmd lists orders.
type ListCmd struct{}

// Run prints one line per stored order.
func (cmd *ListCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	orders, err := st.ListOrders(context.Background())
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Fprintf(app.Out, "%s\t%s\t%d items\t%s\n", o.Name, o.Customer, o.Items, o.UpdatedAt)
	}
	return nil
}

// RunsCmd shows the labeling history of an order.
type RunsCmd struct {
	Order string `arg:"" help:"Order name."`
	Limit int    `short:"n" default:"10" help:"Number of runs to show (0 = all)."`
}

// Run prints the most recent runs first.
func (cmd *RunsCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	runs, err := st.LabelRuns(context.Background(), cmd.Order, cmd.Limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(app.Out, "%s\trows=%d roots=%d depth=%d detached=%d\t%s\n",
			r.CreatedAt, r.Rows, r.Roots, r.MaxDepth, r.Detached, r.Duration)
	}
	return nil
}

// DeleteCmd removes an order.
type DeleteCmd struct {
	Order string `arg:"" help:"Order name."`
}

// Run deletes the order and its history.
func (cmd *DeleteCmd) Run(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	return st.DeleteOrder(context.Background(), cmd.Order)
}
