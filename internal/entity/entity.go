// Package entity defines the two record kinds the console manages and how
// each is listed, shown and described to the operator.
package entity

import (
	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

// Column is one column of the list table.
type Column[S any] struct {
	Title string
	Width int
	Value func(S) string
}

// Field is one labelled line of the detail view.
type Field struct {
	Label string
	Value string
}

// Section groups detail fields under a heading.
type Section struct {
	Title  string
	Fields []Field
}

// Kind bundles everything needed to manage one record kind: the controller
// descriptor, the endpoints and the display text.
type Kind[S, D any] struct {
	listdetail.Resource[S, D]

	Paths gateway.Paths

	// Title heads the tab and the CLI table.
	Title   string
	Loading string
	Empty   string

	Columns []Column[S]
	// Sections renders the detail record.
	Sections    func(D) []Section
	Description func(D) string

	DeleteTitle  string
	DeletePrompt func(S) string

	// SearchText is the string matched by fuzzy search.
	SearchText func(S) string
}

// Row renders one summary as table cells.
func (k Kind[S, D]) Row(item S) []string {
	cells := make([]string, len(k.Columns))
	for i, col := range k.Columns {
		cells[i] = col.Value(item)
	}
	return cells
}

// Headers returns the column titles.
func (k Kind[S, D]) Headers() []string {
	headers := make([]string, len(k.Columns))
	for i, col := range k.Columns {
		headers[i] = col.Title
	}
	return headers
}

// Filter keeps the summaries whose active flag equals active.
func (k Kind[S, D]) Filter(items []S, active bool) []S {
	var out []S
	for _, item := range items {
		if k.Status(item) == active {
			out = append(out, item)
		}
	}
	return out
}
