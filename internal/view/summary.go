package view

import (
	"slices"

	"inputdash/internal/api"
	dom "inputdash/internal/domain"
)

const (
	maxHighOpen   = 6
	maxCategories = 6
)

// Count is one labelled bar of a chart.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Summary is everything the dashboard shows.
type Summary struct {
	Total  int `json:"total" yaml:"total"`
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`

	// Severity is high, medium, low, unknown; unknown counts every other value.
	Severity []Count `json:"severity" yaml:"severity"`
	// Status is open, done; anything not done counts as open.
	Status []Count `json:"status" yaml:"status"`

	HighOpen   []api.Input `json:"high_open" yaml:"high_open"`
	Categories []Count     `json:"categories" yaml:"categories"`
}

// Summarize aggregates items in the order given.
func Summarize(items []api.Input) Summary {
	s := Summary{Total: len(items), HighOpen: []api.Input{}}
	var unknown, open, done int
	catCounts := map[string]int{}
	var catOrder []string

	for _, in := range items {
		switch in.Severity {
		case string(dom.SeverityHigh):
			s.High++
		case string(dom.SeverityMedium):
			s.Medium++
		case string(dom.SeverityLow):
			s.Low++
		default:
			unknown++
		}

		if in.Status == string(dom.StatusDone) {
			done++
		} else {
			open++
			if in.Severity == string(dom.SeverityHigh) && len(s.HighOpen) < maxHighOpen {
				s.HighOpen = append(s.HighOpen, in)
			}
		}

		if _, seen := catCounts[in.Category]; !seen {
			catOrder = append(catOrder, in.Category)
		}
		catCounts[in.Category]++
	}

	s.Severity = []Count{
		{Label: string(dom.SeverityHigh), Count: s.High},
		{Label: string(dom.SeverityMedium), Count: s.Medium},
		{Label: string(dom.SeverityLow), Count: s.Low},
		{Label: string(dom.SeverityUnknown), Count: unknown},
	}
	s.Status = []Count{
		{Label: string(dom.StatusOpen), Count: open},
		{Label: string(dom.StatusDone), Count: done},
	}

	s.Categories = make([]Count, 0, len(catOrder))
	for _, c := range catOrder {
		s.Categories = append(s.Categories, Count{Label: c, Count: catCounts[c]})
	}
	// Stable: ties keep first-seen order.
	slices.SortStableFunc(s.Categories, func(a, b Count) int { return b.Count - a.Count })
	if len(s.Categories) > maxCategories {
		s.Categories = s.Categories[:maxCategories]
	}
	return s
}
