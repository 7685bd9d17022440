// Package view holds the client-side presentation logic: list filtering,
// dashboard aggregates and the single-item editor.
package view

import (
	"strings"

	"inputdash/internal/api"
	dom "inputdash/internal/domain"
)

// TabAll selects every category.
const TabAll = "all"

// Tabs are the category tabs of the list view, in display order.
var Tabs = []string{TabAll, "incident", "task", "event", "issue", "log", "note"}

// Buckets is a filtered list split by status.
type Buckets struct {
	Open []api.Input `json:"open" yaml:"open"`
	Done []api.Input `json:"done" yaml:"done"`
}

// Filter keeps items whose text contains search (case-insensitive) and whose
// category matches tab, then splits them into open and done. Items with any
// other status are in neither bucket.
func Filter(items []api.Input, search, tab string) Buckets {
	q := strings.ToLower(search)
	tab = strings.ToLower(strings.TrimSpace(tab))
	b := Buckets{Open: []api.Input{}, Done: []api.Input{}}
	for _, in := range items {
		if !strings.Contains(strings.ToLower(in.Text), q) {
			continue
		}
		if tab != "" && tab != TabAll && in.Category != tab {
			continue
		}
		switch in.Status {
		case string(dom.StatusOpen):
			b.Open = append(b.Open, in)
		case string(dom.StatusDone):
			b.Done = append(b.Done, in)
		}
	}
	return b
}
