package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category is the coarse kind of an input.
type Category string

const (
	CategoryIssue    Category = "issue"
	CategoryEvent    Category = "event"
	CategoryLog      Category = "log"
	CategoryTask     Category = "task"
	CategoryIncident Category = "incident"
	CategoryNote     Category = "note"
)

// Intent is what the author wants from an input.
type Intent string

const (
	IntentTodo        Intent = "todo"
	IntentWarning     Intent = "warning"
	IntentDeadline    Intent = "deadline"
	IntentInformation Intent = "information"
	IntentQuestion    Intent = "question"
	IntentUnknown     Intent = "unknown"
)

type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityUnknown Severity = "unknown"
)

type Source string

const (
	SourceHuman   Source = "human"
	SourceMachine Source = "machine"
	SourceVendor  Source = "vendor"
	SourceUnknown Source = "unknown"
)

type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

var (
	Categories = []Category{CategoryIssue, CategoryEvent, CategoryLog, CategoryTask, CategoryIncident, CategoryNote}
	Intents    = []Intent{IntentTodo, IntentWarning, IntentDeadline, IntentInformation, IntentQuestion, IntentUnknown}
	Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityUnknown}
	Sources    = []Source{SourceHuman, SourceMachine, SourceVendor, SourceUnknown}
	Statuses   = []Status{StatusOpen, StatusDone}
)

func (c Category) Valid() bool { return contains(Categories, c) }
func (i Intent) Valid() bool   { return contains(Intents, i) }
func (s Severity) Valid() bool { return contains(Severities, s) }
func (s Source) Valid() bool   { return contains(Sources, s) }
func (s Status) Valid() bool   { return contains(Statuses, s) }

func ParseCategory(s string) (Category, error) { return parse(Categories, "category", s) }
func ParseIntent(s string) (Intent, error)     { return parse(Intents, "intent", s) }
func ParseSeverity(s string) (Severity, error) { return parse(Severities, "severity", s) }
func ParseSource(s string) (Source, error)     { return parse(Sources, "source", s) }
func ParseStatus(s string) (Status, error)     { return parse(Statuses, "status", s) }

func contains[T ~string](all []T, v T) bool {
	for _, x := range all {
		if x == v {
			return true
		}
	}
	return false
}

func parse[T ~string](all []T, field, raw string) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(raw)))
	if !contains(all, v) {
		return "", fmt.Errorf("invalid %s %q (allowed: %s)", field, raw, joinValues(all))
	}
	return v, nil
}

func joinValues[T ~string](all []T) string {
	parts := make([]string, len(all))
	for i, v := range all {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Input is a user-submitted text record with its classification and lifecycle status.
// Owned by the backend; not tied to Gin, Postgres or Redis.
type Input struct {
	ID       int64
	UserID   int64
	Text     string
	Category Category
	Intent   Intent
	Severity Severity
	Source   Source
	Status   Status

	CreatedAt *time.Time
	DeletedAt *time.Time
}

// Classification is the set of fields a classifier assigns to an input.
type Classification struct {
	Category Category
	Intent   Intent
	Severity Severity
	Source   Source
}

// InputPatch is a partial update; nil fields are left alone.
type InputPatch struct {
	Text     *string
	Category *Category
	Intent   *Intent
	Severity *Severity
	Source   *Source
	Status   *Status
}

// ListOrder selects how inputs are sorted in a listing.
type ListOrder string

const (
	// OrderDashboard puts high severity first, done items last, newest first within.
	OrderDashboard ListOrder = "dashboard"
	OrderCategory  ListOrder = "category"
	OrderCreatedAt ListOrder = "created_at"
)

func (o ListOrder) Valid() bool {
	switch o {
	case OrderDashboard, OrderCategory, OrderCreatedAt:
		return true
	}
	return false
}
