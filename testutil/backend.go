package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"

	"go.safehomi.dev/homeadmin/internal/config"
	"go.safehomi.dev/homeadmin/internal/entity"
	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/mockapi"
)

// IsolateXDG points the config and state directories at a temp dir and
// clears the environment overrides for the duration of the test.
func IsolateXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	originalConfigHome := xdg.ConfigHome
	originalStateHome := xdg.StateHome
	// xdg reads env vars at init time, so override the resolved paths directly
	xdg.ConfigHome = filepath.Join(tmpDir, "config")
	xdg.StateHome = filepath.Join(tmpDir, "state")
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvImageBaseURL, "")

	t.Cleanup(func() {
		xdg.ConfigHome = originalConfigHome
		xdg.StateHome = originalStateHome
	})
	return tmpDir
}

// Backend is an in-memory API served over HTTP.
type Backend struct {
	Server *mockapi.Server
	URL    string
}

// StartBackend serves a mock API seeded with the given records.
func StartBackend(t *testing.T, listings []entity.Listing, inquiries []entity.Inquiry) *Backend {
	t.Helper()
	srv := mockapi.New(mockapi.Options{})
	srv.Seed(listings, inquiries)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &Backend{Server: srv, URL: ts.URL}
}

// LogIn stores a valid admin session for b, as `homeadmin login` would.
// Call IsolateXDG first.
func (b *Backend) LogIn(t *testing.T) {
	t.Helper()
	token, err := b.Server.MintToken()
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	session, err := gateway.NewSession(token, mockapi.DefaultAdminEmail, b.URL, time.Now())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	path, err := config.GetSessionPath()
	if err != nil {
		t.Fatalf("session path: %v", err)
	}
	if err := gateway.NewSessionStore(path, b.URL).Save(session); err != nil {
		t.Fatalf("save session: %v", err)
	}
}
