package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/state"
)

const (
	selectedMarker = "✓"
	pendingMarker  = "…"
)

func newProductTable() table.Model {
	t := table.New(
		table.WithColumns(productColumns(0)),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func productColumns(width int) []table.Column {
	// Name absorbs whatever the fixed columns leave over.
	nameWidth := width - 46
	if nameWidth < 20 {
		nameWidth = 20
	}
	return []table.Column{
		{Title: " ", Width: 2},
		{Title: "Name", Width: nameWidth},
		{Title: "Category", Width: 11},
		{Title: "Price", Width: 9},
		{Title: "Stock", Width: 6},
		{Title: "Status", Width: 9},
		{Title: "Views", Width: 6},
		{Title: "Inq", Width: 5},
	}
}

// rowsFromSnapshot formats the loaded page for the table. Placeholder
// entries from in-flight creates render with a pending marker instead of a
// selection cell.
func rowsFromSnapshot(snap state.Snapshot) []table.Row {
	selected := make(map[string]struct{}, len(snap.Selected))
	for _, id := range snap.Selected {
		selected[id] = struct{}{}
	}

	rows := make([]table.Row, 0, len(snap.Products))
	for _, p := range snap.Products {
		rows = append(rows, productRow(p, selected))
	}
	return rows
}

func productRow(p catalog.Product, selected map[string]struct{}) table.Row {
	marker := " "
	if _, ok := selected[p.ID]; ok {
		marker = selectedMarker
	}
	if strings.HasPrefix(p.ID, "pending-") {
		marker = pendingMarker
	}
	return table.Row{
		marker,
		p.Name,
		p.Category,
		formatPrice(p.Price),
		fmt.Sprintf("%d", p.Stock),
		statusLabel(p.Status),
		fmt.Sprintf("%d", p.Views),
		fmt.Sprintf("%d", p.Inquiries),
	}
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func statusLabel(status catalog.Status) string {
	switch status {
	case catalog.StatusActive:
		return "active"
	case catalog.StatusInactive:
		return "inactive"
	default:
		return string(status)
	}
}

// selectedProductID returns the identifier under the cursor, or "" when the
// page is empty.
func selectedProductID(snap state.Snapshot, cursor int) string {
	if cursor < 0 || cursor >= len(snap.Products) {
		return ""
	}
	return snap.Products[cursor].ID
}
