package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lthms/outline/internal/outline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCmd serves outline tools over stdio.
type MCPCmd struct{}

type labelRowsArgs struct {
	Rows []outline.Row `json:"rows" jsonschema:"Flat list of rows; parent_id references another row's id, sequence orders siblings"`
}

type showOrderArgs struct {
	Order string `json:"order" jsonschema:"Name of a stored sales order"`
	All   bool   `json:"all,omitempty" jsonschema:"Include items below folded rows"`
}

type listOrdersArgs struct{}

// Run blocks serving MCP requests until stdin closes.
func (cmd *MCPCmd) Run(app *App) error {
	slog.Debug("starting MCP server")
	return newMCPServer(app).Run(context.Background(), &mcp.StdioTransport{})
}

func newMCPServer(app *App) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "outline",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "label_rows",
		Description: "Assign ids, outline labels (1, 1.1, 1.2, 2, ...) and depths to a flat list of rows. Returns the rows as a JSON array in input order.",
	}, handleLabelRows)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show_order",
		Description: "Print a stored sales order as an indented outline.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args showOrderArgs) (*mcp.CallToolResult, any, error) {
		slog.Debug("show_order called", "order", args.Order)
		text, err := showOrderText(ctx, app, args)
		if err != nil {
			return nil, nil, fmt.Errorf("show order failed: %w", err)
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List stored sales orders as a JSON array of {name, customer, items, updated_at}.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listOrdersArgs) (*mcp.CallToolResult, any, error) {
		st, err := app.Store()
		if err != nil {
			return nil, nil, err
		}
		orders, err := st.ListOrders(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list orders failed: %w", err)
		}
		out, err := json.Marshal(orders)
		if err != nil {
			return nil, nil, err
		}
		return textResult(string(out)), nil, nil
	})

	return server
}

func handleLabelRows(ctx context.Context, req *mcp.CallToolRequest, args labelRowsArgs) (*mcp.CallToolResult, any, error) {
	slog.Debug("label_rows called", "rows", len(args.Rows))
	text, err := labelRowsJSON(args.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("label rows failed: %w", err)
	}
	return textResult(text), nil, nil
}

// labelRowsJSON labels rows and returns them as JSON.
func labelRowsJSON(rows []outline.Row) (string, error) {
	ptrs := make([]*outline.Row, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	outline.Label(ptrs)

	if rows == nil {
		rows = []outline.Row{}
	}
	out, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func showOrderText(ctx context.Context, app *App, args showOrderArgs) (string, error) {
	st, err := app.Store()
	if err != nil {
		return "", err
	}
	o, err := st.LoadOrder(ctx, args.Order)
	if err != nil {
		return "", err
	}
	collapsed := outline.Collapsed{}
	if !args.All {
		if collapsed, err = st.Collapsed(ctx, args.Order); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := renderOrder(&buf, o, collapsed, renderOptions{Indent: app.Config.Display.Indent}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
