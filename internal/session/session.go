// Package session holds the client's auth token and persists it between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inputdash/internal/api"
	"inputdash/internal/demo"
)

const tokenEnvKey = "INPUTDASH_TOKEN"

// ErrNotLoggedIn is returned by commands that need a token when there is none.
var ErrNotLoggedIn = errors.New("not logged in: run `inputdash login` first")

const (
	SourceDemo = "demo"
	SourceEnv  = "env"
	SourceFile = "file"
)

// Credentials is what gets written to the credentials file.
type Credentials struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the current token holder. In demo mode it is always logged in as
// the demo user and never touches the credentials file.
type Session struct {
	path   string
	demo   bool
	creds  Credentials
	source string
}

// Load restores the session. The INPUTDASH_TOKEN env var wins over the file.
func Load(path string, demoMode bool) (*Session, error) {
	s := &Session{path: path, demo: demoMode}
	if demoMode {
		s.creds = Credentials{Token: demo.Token, Email: demo.Email}
		s.source = SourceDemo
		return s, nil
	}

	if env := strings.TrimSpace(os.Getenv(tokenEnvKey)); env != "" {
		s.creds = Credentials{Token: stripBearer(env)}
		s.source = SourceEnv
		return s, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Token = stripBearer(strings.TrimSpace(c.Token))
	if c.Token != "" {
		s.creds = c
		s.source = SourceFile
	}
	return s, nil
}

func (s *Session) Token() string       { return s.creds.Token }
func (s *Session) Email() string       { return s.creds.Email }
func (s *Session) Demo() bool          { return s.demo }
func (s *Session) Source() string      { return s.source }
func (s *Session) Authenticated() bool { return s.creds.Token != "" }

// Require returns ErrNotLoggedIn when there is no token.
func (s *Session) Require() error {
	if !s.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// Apply hands the token to backends that send one.
func (s *Session) Apply(b api.Backend) {
	if ts, ok := b.(api.TokenSetter); ok {
		ts.SetToken(s.creds.Token)
	}
}

// Login exchanges credentials for a token and stores it.
func (s *Session) Login(ctx context.Context, b api.Backend, email, password string) error {
	email = strings.TrimSpace(email)
	resp, err := b.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if s.demo {
		s.Apply(b)
		return nil
	}
	token := stripBearer(strings.TrimSpace(resp.AccessToken))
	if token == "" {
		return fmt.Errorf("server returned an empty token")
	}
	c := Credentials{Token: token, Email: email, CreatedAt: time.Now().UTC()}
	if err := s.write(c); err != nil {
		return err
	}
	s.creds = c
	s.source = SourceFile
	s.Apply(b)
	return nil
}

// Register creates the account, then logs in with the same credentials.
func (s *Session) Register(ctx context.Context, b api.Backend, email, password string) error {
	if _, err := b.Register(ctx, strings.TrimSpace(email), password); err != nil {
		return err
	}
	return s.Login(ctx, b, email, password)
}

// Logout forgets the token. It is a no-op in demo mode.
func (s *Session) Logout() error {
	if s.demo {
		return nil
	}
	s.creds = Credentials{}
	s.source = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (s *Session) write(c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
