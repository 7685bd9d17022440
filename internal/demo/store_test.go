package demo

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inputdash/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nested", DataFileName))
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestStore_Auth(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tok, err := s.Login(ctx, "anyone@example.com", "x")
	require.NoError(t, err)
	assert.Equal(t, Token, tok.AccessToken)

	u, err := s.Register(ctx, " new@example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)

	_, err = s.Login(ctx, "", "x")
	assert.True(t, api.IsStatus(err, http.StatusBadRequest))
}

func TestStore_CreateClassifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in, err := s.CreateInput(ctx, "Please call the vendor about the p1 bug")
	require.NoError(t, err)
	assert.Equal(t, int64(1), in.ID)
	assert.Equal(t, "issue", in.Category)
	assert.Equal(t, "medium", in.Severity)
	assert.Equal(t, "open", in.Status)
	require.NotNil(t, in.CreatedAt)

	_, err = s.CreateInput(ctx, "  ")
	assert.Error(t, err)

	reopened := NewStore(s.path)
	got, err := reopened.GetInput(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Text, got.Text)

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_IDsAreMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, text := range []string{"one", "two", "three"} {
		_, err := s.CreateInput(ctx, text)
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteInput(ctx, 2))

	in, err := s.CreateInput(ctx, "four")
	require.NoError(t, err)
	assert.Equal(t, int64(4), in.ID)

	require.NoError(t, s.DeleteInput(ctx, 4))
	in, err = s.CreateInput(ctx, "five")
	require.NoError(t, err)
	assert.Equal(t, int64(4), in.ID)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in, err := s.CreateInput(ctx, "meeting notes")
	require.NoError(t, err)

	out, err := s.UpdateInput(ctx, in.ID, api.InputUpdate{Source: str("vendor"), Status: str("done")})
	require.NoError(t, err)
	assert.Equal(t, "vendor", out.Source)
	assert.Equal(t, "done", out.Status)
	assert.Equal(t, "event", out.Category)

	out, err = s.UpdateInput(ctx, in.ID, api.InputUpdate{Text: str("URGENT outage in eu-west"), Intent: str("todo")})
	require.NoError(t, err)
	assert.Equal(t, "incident", out.Category)
	assert.Equal(t, "high", out.Severity)
	assert.Equal(t, "todo", out.Intent, "explicit intent wins")
	assert.Equal(t, "vendor", out.Source, "current source is the hint")
	assert.Equal(t, "done", out.Status)

	_, err = s.UpdateInput(ctx, in.ID, api.InputUpdate{Severity: str("extreme")})
	assert.True(t, api.IsStatus(err, http.StatusBadRequest))

	_, err = s.UpdateInput(ctx, 99, api.InputUpdate{Status: str("done")})
	assert.EqualError(t, err, "Input not found")
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in, err := s.CreateInput(ctx, "x")
	require.NoError(t, err)

	require.NoError(t, s.DeleteInput(ctx, in.ID))
	_, err = s.GetInput(ctx, in.ID)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
	assert.True(t, api.IsStatus(s.DeleteInput(ctx, in.ID), http.StatusNotFound))

	require.NoError(t, s.Reset())
	require.NoError(t, s.Reset())
}

func TestStore_ListOrders(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	texts := []string{
		"minor typo in footer", // 1 note low
		"sev1 outage",          // 2 incident high
		"release planning",     // 3 event unknown
		"critical log: trace",  // 4 log high, done below
		"random thought",       // 5 note unknown
	}
	for _, text := range texts {
		_, err := s.CreateInput(ctx, text)
		require.NoError(t, err)
	}
	_, err := s.UpdateInput(ctx, 4, api.InputUpdate{Status: str("done")})
	require.NoError(t, err)

	ids := func(order string) []int64 {
		list, err := s.ListInputs(ctx, order)
		require.NoError(t, err)
		out := make([]int64, len(list))
		for i, in := range list {
			out[i] = in.ID
		}
		return out
	}

	assert.Equal(t, []int64{2, 4, 5, 3, 1}, ids(""))
	assert.Equal(t, []int64{3, 2, 4, 5, 1}, ids("category"))
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids("created_at"))

	_, err = s.ListInputs(ctx, "priority")
	assert.EqualError(t, err, "Invalid order")
}
