package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix  = "token:"
	DefaultTokenTTL = 24 * time.Hour
)

// ErrInvalidToken is returned for unknown, revoked or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenStore issues and resolves opaque bearer tokens.
type TokenStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	GetUserID(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore keeps tokens in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a new token store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Create stores a new token for the user and returns it.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, tokenKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set token: %w", err)
	}
	return token, nil
}

// GetUserID returns the owner of a live token. Redis failures are returned
// as is, so callers can tell an outage from a bad token.
func (s *RedisStore) GetUserID(ctx context.Context, token string) (int64, error) {
	v, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("redis get token: %w", err)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Delete revokes a token.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	err := s.rdb.Del(ctx, tokenKeyPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// MemoryStore is a process-local TokenStore used when Redis is not configured.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]memoryToken
}

type memoryToken struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, tokens: make(map[string]memoryToken)}
}

func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) GetUserID(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	if !s.now().Before(t.expiresAt) {
		delete(s.tokens, token)
		return 0, ErrInvalidToken
	}
	return t.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
