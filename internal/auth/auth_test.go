package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_RoundTrip(t *testing.T) {
	long := strings.Repeat("x", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(long, hash))
	assert.False(t, VerifyPassword(long[:72], hash), "bytes past 72 must still count")
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer   abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	id, err := s.GetUserID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	now = now.Add(time.Hour)
	_, err = s.GetUserID(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token must expire after ttl")

	token, err = s.Create(ctx, 8)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, token))
	_, err = s.GetUserID(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s := NewRedisStore(rdb, time.Hour)

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(tokenKeyPrefix+token))

	id, err := s.GetUserID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = s.GetUserID(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)

	mr.FastForward(time.Hour)
	_, err = s.GetUserID(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token must expire after ttl")

	token, err = s.Create(ctx, 8)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, token))
	_, err = s.GetUserID(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	mr.Close()
	_, err = s.GetUserID(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken, "an outage is not a bad token")
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) GetUserID(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRequireBearer_StoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireBearer(brokenStore{NewMemoryStore(time.Hour)}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Authentication service unavailable"}`, w.Body.String())
}

func TestRequireBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewMemoryStore(time.Hour)
	token, err := store.Create(context.Background(), 42)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireBearer(store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserIDFromContext(c), "token": TokenFromContext(c)})
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":42,"token":"`+token+`"}`, w.Body.String())
	})

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"unknown token":  "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, w.Body.String())
		})
	}
}
