package ui

import (
	"strings"
	"testing"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/query"
	"github.com/mpelle/stockwell/internal/state"
)

func TestRowsFromSnapshot_MarkersAndFormatting(t *testing.T) {
	snap := state.Snapshot{
		Products: []catalog.Product{
			{ID: "pending-123", Name: "Being created", Price: 5, Status: catalog.StatusActive},
			{ID: "p-1", Name: "Walnut Shelf", Category: "home", Price: 49.9, Stock: 12, Status: catalog.StatusActive, Views: 31, Inquiries: 4},
			{ID: "p-2", Name: "Desk Lamp", Category: "home", Price: 20, Status: catalog.StatusInactive},
		},
		Selected: []string{"p-1"},
	}

	rows := rowsFromSnapshot(snap)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != pendingMarker {
		t.Fatalf("placeholder marker = %q, want %q", rows[0][0], pendingMarker)
	}
	if rows[1][0] != selectedMarker {
		t.Fatalf("selected marker = %q, want %q", rows[1][0], selectedMarker)
	}
	if rows[2][0] != " " {
		t.Fatalf("unselected marker = %q, want blank", rows[2][0])
	}
	if rows[1][3] != "49.90" {
		t.Fatalf("price = %q, want %q", rows[1][3], "49.90")
	}
	if rows[2][5] != "inactive" {
		t.Fatalf("status = %q, want %q", rows[2][5], "inactive")
	}
}

func TestSelectedProductID_EmptyAndOutOfRange(t *testing.T) {
	snap := state.Snapshot{Products: []catalog.Product{{ID: "p-1"}}}
	if got := selectedProductID(snap, 0); got != "p-1" {
		t.Fatalf("selectedProductID = %q, want %q", got, "p-1")
	}
	if got := selectedProductID(snap, 5); got != "" {
		t.Fatalf("selectedProductID out of range = %q, want empty", got)
	}
	if got := selectedProductID(state.Snapshot{}, 0); got != "" {
		t.Fatalf("selectedProductID on empty page = %q, want empty", got)
	}
}

func TestFilterSummary_DescribesActiveFilters(t *testing.T) {
	f := query.Default(10)
	f.Search = "shelf"
	f.Category = "home"
	f.Status = "active"

	got := filterSummary(f)
	for _, want := range []string{`search "shelf"`, "category home", "status active", "sort created_at/desc"} {
		if !strings.Contains(got, want) {
			t.Fatalf("filterSummary = %q, want it to contain %q", got, want)
		}
	}
}

func TestNextCategory_CyclesThroughAllAndBack(t *testing.T) {
	current := ""
	seen := map[string]bool{}
	for range catalog.Categories {
		current = nextCategory(current)
		if current == "" {
			t.Fatalf("cycle returned to empty before covering all categories")
		}
		seen[current] = true
	}
	if len(seen) != len(catalog.Categories) {
		t.Fatalf("cycle covered %d categories, want %d", len(seen), len(catalog.Categories))
	}
	if got := nextCategory(current); got != "" {
		t.Fatalf("nextCategory after last = %q, want empty (no filter)", got)
	}
}

func TestNextSort_UnknownPairResets(t *testing.T) {
	field, order := nextSort("bogus", "asc")
	if field != "created_at" || order != "desc" {
		t.Fatalf("nextSort = %s/%s, want created_at/desc", field, order)
	}
}
