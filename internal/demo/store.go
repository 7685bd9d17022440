// Package demo is a file-backed stand-in for the API. Inputs live in a JSON
// file and are classified locally with the keyword classifier.
package demo

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"inputdash/internal/api"
	"inputdash/internal/classify"
	dom "inputdash/internal/domain"
)

const (
	DataFileName = "demo_inputs.json"
	Token        = "demo-token"
	Email        = "demo@local"
)

var errNotFound = &api.APIError{Status: http.StatusNotFound, Message: "Input not found"}

// Store implements api.Backend on top of a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ api.Backend = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Login accepts any credentials and hands out the demo token.
func (s *Store) Login(_ context.Context, email, password string) (api.TokenResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return api.TokenResponse{}, badRequest("email and password required")
	}
	return api.TokenResponse{AccessToken: Token, TokenType: "bearer"}, nil
}

func (s *Store) Register(_ context.Context, email, password string) (api.UserResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return api.UserResponse{}, badRequest("email and password required")
	}
	return api.UserResponse{ID: 1, Email: strings.TrimSpace(email)}, nil
}

func (s *Store) ListInputs(_ context.Context, order string) ([]api.Input, error) {
	if order == "" {
		order = string(dom.OrderDashboard)
	}
	if !dom.ListOrder(order).Valid() {
		return nil, badRequest("Invalid order")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return nil, err
	}
	sortInputs(items, dom.ListOrder(order))
	return items, nil
}

func (s *Store) GetInput(_ context.Context, id int64) (api.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return api.Input{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return api.Input{}, errNotFound
	}
	return items[i], nil
}

func (s *Store) CreateInput(_ context.Context, text string) (api.Input, error) {
	if strings.TrimSpace(text) == "" {
		return api.Input{}, badRequest("text must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return api.Input{}, err
	}

	c := classify.KeywordClassify(text, "")
	now := s.now().UTC()
	in := api.Input{
		ID:        nextID(items),
		Text:      text,
		Category:  string(c.Category),
		Intent:    string(c.Intent),
		Severity:  string(c.Severity),
		Source:    string(c.Source),
		Status:    string(dom.StatusOpen),
		CreatedAt: &now,
	}
	items = append(items, in)
	if err := s.save(items); err != nil {
		return api.Input{}, err
	}
	return in, nil
}

// UpdateInput mirrors the server: new text re-classifies with the current
// source as hint, and explicitly sent fields win.
func (s *Store) UpdateInput(_ context.Context, id int64, patch api.InputUpdate) (api.Input, error) {
	if err := validate(patch); err != nil {
		return api.Input{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return api.Input{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return api.Input{}, errNotFound
	}
	in := items[i]

	if patch.Text != nil {
		in.Text = *patch.Text
		hint := dom.Source(pick(patch.Source, in.Source))
		c := classify.KeywordClassify(in.Text, hint)
		in.Category = pick(patch.Category, string(c.Category))
		in.Intent = pick(patch.Intent, string(c.Intent))
		in.Severity = pick(patch.Severity, string(c.Severity))
		in.Source = pick(patch.Source, string(c.Source))
	} else {
		in.Category = pick(patch.Category, in.Category)
		in.Intent = pick(patch.Intent, in.Intent)
		in.Severity = pick(patch.Severity, in.Severity)
		in.Source = pick(patch.Source, in.Source)
	}
	in.Status = pick(patch.Status, in.Status)

	items[i] = in
	if err := s.save(items); err != nil {
		return api.Input{}, err
	}
	return in, nil
}

func (s *Store) DeleteInput(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(items, id)
	if i < 0 {
		return errNotFound
	}
	return s.save(slices.Delete(items, i, i+1))
}

// Reset removes all demo data.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove demo data: %w", err)
	}
	return nil
}

func (s *Store) load() ([]api.Input, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []api.Input{}, nil
		}
		return nil, fmt.Errorf("read demo data: %w", err)
	}
	var items []api.Input
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse demo data: %w", err)
	}
	return items, nil
}

func (s *Store) save(items []api.Input) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write demo data: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace demo data: %w", err)
	}
	return nil
}

func validate(p api.InputUpdate) error {
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return badRequest("text must not be empty")
	}
	checks := []struct {
		v     *string
		parse func(string) error
	}{
		{p.Category, func(s string) error { _, err := dom.ParseCategory(s); return err }},
		{p.Intent, func(s string) error { _, err := dom.ParseIntent(s); return err }},
		{p.Severity, func(s string) error { _, err := dom.ParseSeverity(s); return err }},
		{p.Source, func(s string) error { _, err := dom.ParseSource(s); return err }},
		{p.Status, func(s string) error { _, err := dom.ParseStatus(s); return err }},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := c.parse(*c.v); err != nil {
			return badRequest(err.Error())
		}
	}
	return nil
}

func sortInputs(items []api.Input, order dom.ListOrder) {
	newestFirst := func(a, b api.Input) int {
		if c := compareTime(b.CreatedAt, a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	}
	switch order {
	case dom.OrderDashboard:
		slices.SortStableFunc(items, func(a, b api.Input) int {
			if c := cmp.Compare(rankHigh(a), rankHigh(b)); c != 0 {
				return c
			}
			if c := cmp.Compare(rankDone(a), rankDone(b)); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	case dom.OrderCategory:
		slices.SortStableFunc(items, func(a, b api.Input) int {
			if c := cmp.Compare(a.Category, b.Category); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	default:
		slices.SortStableFunc(items, newestFirst)
	}
}

func rankHigh(in api.Input) int {
	if in.Severity == string(dom.SeverityHigh) {
		return 0
	}
	return 1
}

func rankDone(in api.Input) int {
	if in.Status == string(dom.StatusDone) {
		return 1
	}
	return 0
}

// compareTime orders nil before any time.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func nextID(items []api.Input) int64 {
	var maxID int64
	for _, in := range items {
		maxID = max(maxID, in.ID)
	}
	return maxID + 1
}

func indexOf(items []api.Input, id int64) int {
	return slices.IndexFunc(items, func(in api.Input) bool { return in.ID == id })
}

func pick(override *string, fallback string) string {
	if override != nil {
		return strings.ToLower(strings.TrimSpace(*override))
	}
	return fallback
}

func badRequest(msg string) error {
	return &api.APIError{Status: http.StatusBadRequest, Message: msg}
}
