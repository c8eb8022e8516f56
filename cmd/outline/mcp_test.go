package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lthms/outline/internal/outline"
)

func TestLabelRowsJSON(t *testing.T) {
	text, err := labelRowsJSON([]outline.Row{
		{ID: "a", Sequence: 0},
		{ID: "b", ParentID: "a", Sequence: 1},
		{ID: "c", ParentID: "a", Sequence: 0},
	})
	if err != nil {
		t.Fatalf("labelRowsJSON: %v", err)
	}

	var rows []outline.Row
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := []string{rows[0].Label, rows[1].Label, rows[2].Label}
	if strings.Join(got, " ") != "1 1.2 1.1" {
		t.Errorf("labels = %v, want [1 1.2 1.1]", got)
	}
}

func TestLabelRowsJSONEmpty(t *testing.T) {
	text, err := labelRowsJSON(nil)
	if err != nil {
		t.Fatalf("labelRowsJSON: %v", err)
	}
	if text != "[]" {
		t.Errorf("text = %q, want []", text)
	}
}

func TestShowOrderText(t *testing.T) {
	app, _ := newTestApp(t)
	importSample(t, app)

	text, err := showOrderText(context.Background(), app, showOrderArgs{Order: "SO-0100"})
	if err != nil {
		t.Fatalf("showOrderText: %v", err)
	}
	if !strings.Contains(text, "1.1     BOLT") {
		t.Errorf("text lacks BOLT:\n%s", text)
	}

	if _, err := showOrderText(context.Background(), app, showOrderArgs{Order: "nope"}); err == nil {
		t.Error("expected an error for a missing order")
	}
}

func TestNewMCPServer(t *testing.T) {
	app, _ := newTestApp(t)
	if newMCPServer(app) == nil {
		t.Fatal("newMCPServer returned nil")
	}
}
