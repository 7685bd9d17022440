package view

import (
	"errors"
	"strconv"
	"strings"

	"inputdash/internal/api"
	dom "inputdash/internal/domain"
)

var (
	ErrInvalidID = errors.New("Invalid input id")
	ErrEmptyText = errors.New("text must not be empty")
)

// Draft is the editable state of one input.
type Draft struct {
	Text     string
	Status   string
	Category string
	Intent   string
	Severity string
	Source   string
}

// DraftFrom starts a draft from a fetched item. Any status other than done is
// edited as open.
func DraftFrom(in api.Input) Draft {
	status := string(dom.StatusOpen)
	if in.Status == string(dom.StatusDone) {
		status = string(dom.StatusDone)
	}
	return Draft{
		Text:     in.Text,
		Status:   status,
		Category: in.Category,
		Intent:   in.Intent,
		Severity: in.Severity,
		Source:   in.Source,
	}
}

// Validate rejects empty text and values outside the enumerations.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return ErrEmptyText
	}
	if _, err := dom.ParseStatus(d.Status); err != nil {
		return err
	}
	if _, err := dom.ParseCategory(d.Category); err != nil {
		return err
	}
	if _, err := dom.ParseIntent(d.Intent); err != nil {
		return err
	}
	if _, err := dom.ParseSeverity(d.Severity); err != nil {
		return err
	}
	_, err := dom.ParseSource(d.Source)
	return err
}

// Diff builds the PATCH body: only fields that differ from original, or every
// field when the original is unknown.
func Diff(original *api.Input, d Draft) api.InputUpdate {
	if original == nil {
		return api.InputUpdate{
			Text:     ptr(d.Text),
			Status:   ptr(d.Status),
			Category: ptr(d.Category),
			Intent:   ptr(d.Intent),
			Severity: ptr(d.Severity),
			Source:   ptr(d.Source),
		}
	}
	var u api.InputUpdate
	if d.Text != original.Text {
		u.Text = ptr(d.Text)
	}
	if d.Status != original.Status {
		u.Status = ptr(d.Status)
	}
	if d.Category != original.Category {
		u.Category = ptr(d.Category)
	}
	if d.Intent != original.Intent {
		u.Intent = ptr(d.Intent)
	}
	if d.Severity != original.Severity {
		u.Severity = ptr(d.Severity)
	}
	if d.Source != original.Source {
		u.Source = ptr(d.Source)
	}
	return u
}

// UpdateEmpty reports whether u changes nothing.
func UpdateEmpty(u api.InputUpdate) bool {
	return u.Text == nil && u.Status == nil && u.Category == nil &&
		u.Intent == nil && u.Severity == nil && u.Source == nil
}

// ParseID parses an input id argument.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ValidateSubmit rejects blank submissions before they reach the backend.
func ValidateSubmit(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

func ptr(s string) *string { return &s }
