package ui

import (
	"fmt"
	"strings"

	"github.com/mpelle/stockwell/internal/notify"
	"github.com/mpelle/stockwell/internal/query"
)

// renderHeader renders the top status line: logo, connectivity, filter
// summary and pagination.
func (m Model) renderHeader() string {
	parts := []string{m.styles.Logo.Render("stockwell")}

	if m.snapshot.IsOffline() {
		parts = append(parts, m.styles.Danger.Render("● OFFLINE"))
	} else if m.snapshot.LastError != nil {
		parts = append(parts, m.styles.Warning.Render("● retrying"))
	} else {
		parts = append(parts, m.styles.Success.Render("● ON"))
	}

	filter, _ := m.queries.Current()
	parts = append(parts, m.styles.Muted.Render(filterSummary(filter)))

	p := m.snapshot.Pagination
	if p.TotalPages > 0 {
		parts = append(parts, m.styles.Header.Render(
			fmt.Sprintf("page %d/%d · %d products", p.CurrentPage, p.TotalPages, p.TotalItems),
		))
	}

	return strings.Join(parts, "  ")
}

// filterSummary describes the active filters in one short line.
func filterSummary(f query.FilterState) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.Category != "" {
		parts = append(parts, "category "+f.Category)
	}
	if f.Status != "" {
		parts = append(parts, "status "+string(f.Status))
	}
	parts = append(parts, fmt.Sprintf("sort %s/%s", f.SortBy, f.SortOrder))
	return strings.Join(parts, " · ")
}

// renderFooter renders the bottom line: an active toast wins over the help
// hint; the selection count is always appended.
func (m Model) renderFooter() string {
	var left string
	if m.toast != nil {
		left = m.renderToast(*m.toast)
	} else {
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	if n := len(m.snapshot.Selected); n > 0 {
		left += m.styles.Selected.Render(fmt.Sprintf("  %d selected", n))
	}
	return left
}

func (m Model) renderToast(e notify.Event) string {
	var style = m.styles.Header
	switch e.Level {
	case notify.Success:
		style = m.styles.Success
	case notify.Warning:
		style = m.styles.Warning
	case notify.Error:
		style = m.styles.Danger
	}

	text := style.Render(e.Message)
	if e.Retry != nil {
		text += m.styles.Muted.Render("  (R to retry)")
	}
	if e.Undo != nil {
		text += m.styles.Muted.Render("  (u to undo)")
	}
	return text
}
