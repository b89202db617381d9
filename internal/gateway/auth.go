package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// LoginPath is the admin login endpoint.
const LoginPath = "/auth/admin/login"

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionMismatch means the stored session was issued by another API.
	ErrSessionMismatch = errors.New("session belongs to a different API")
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginData struct {
	Token string `json:"token"`
}

// Login exchanges admin credentials for a token. Credentials are never
// logged.
func (c *Client) Login(ctx context.Context, email, password string) (Envelope[LoginData], error) {
	var env Envelope[LoginData]
	err := c.send(ctx, http.MethodPost, LoginPath, LoginRequest{Email: email, Password: password}, &env, false)
	return env, err
}

// Session is the persisted result of a successful login.
type Session struct {
	Token     string    `yaml:"token"`
	Email     string    `yaml:"email,omitempty"`
	APIURL    string    `yaml:"api_url"`
	CreatedAt time.Time `yaml:"created_at"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
}

// NewSession builds a Session from a login token. The expiry is read from the
// token's exp claim without verifying the signature: only the server can do
// that, the client just wants to avoid sending a token it knows is stale.
func NewSession(token, email, apiURL string, now time.Time) (Session, error) {
	s := Session{
		Token:     token,
		Email:     email,
		APIURL:    apiURL,
		CreatedAt: now.UTC(),
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are fine, they just carry no expiry.
		return s, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Session{}, fmt.Errorf("read token expiry: %w", err)
	}
	if exp != nil {
		s.ExpiresAt = exp.Time.UTC()
	}
	return s, nil
}

// Expired reports whether the session has a known expiry in the past.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore keeps the session in a YAML file and serves it as a
// TokenSource. The token is only handed out for the API it was issued by.
type SessionStore struct {
	path   string
	apiURL string
	now    func() time.Time
}

// NewSessionStore returns a store for the session file at path, bound to
// apiURL.
func NewSessionStore(path, apiURL string) *SessionStore {
	return &SessionStore{path: path, apiURL: normalizeAPIURL(apiURL), now: time.Now}
}

func normalizeAPIURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

func (s *SessionStore) Path() string {
	return s.path
}

func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNotLoggedIn
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	if strings.TrimSpace(session.Token) == "" {
		return Session{}, ErrNotLoggedIn
	}
	return session, nil
}

func (s *SessionStore) Save(session Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing a missing session is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Token implements TokenSource.
func (s *SessionStore) Token() (string, error) {
	session, err := s.Load()
	if err != nil {
		return "", err
	}
	if got := normalizeAPIURL(session.APIURL); got != s.apiURL {
		return "", fmt.Errorf("%w (%s)", ErrSessionMismatch, got)
	}
	if session.Expired(s.now()) {
		return "", ErrSessionExpired
	}
	return session.Token, nil
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }
