package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

// setupConfigTest points the XDG directories at a temporary directory
// and returns a cleanup function.
func setupConfigTest(t *testing.T) func() {
	t.Helper()
	tmpDir := t.TempDir()

	originalConfigHome := xdg.ConfigHome
	originalStateHome := xdg.StateHome

	// xdg reads env vars at init time, so override the resolved paths directly
	xdg.ConfigHome = filepath.Join(tmpDir, "config")
	xdg.StateHome = filepath.Join(tmpDir, "state")
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvImageBaseURL, "")

	return func() {
		xdg.ConfigHome = originalConfigHome
		xdg.StateHome = originalStateHome
	}
}

func TestGetConfigPath(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if !strings.HasSuffix(path, configFileName) {
		t.Errorf("GetConfigPath() = %q, want path ending with %q", path, configFileName)
	}
	if !strings.Contains(path, configDirName) {
		t.Errorf("GetConfigPath() = %q, want path containing %q", path, configDirName)
	}
}

func TestGetSessionPath(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	path, err := GetSessionPath()
	if err != nil {
		t.Fatalf("GetSessionPath() error = %v", err)
	}
	if filepath.Base(path) != sessionFileName {
		t.Errorf("GetSessionPath() = %q, want base %q", path, sessionFileName)
	}
}

func TestGetLogPath(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	path, err := GetLogPath(Config{})
	if err != nil {
		t.Fatalf("GetLogPath() error = %v", err)
	}
	if filepath.Base(path) != logFileName {
		t.Errorf("GetLogPath() = %q, want base %q", path, logFileName)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("GetLogPath() did not create state dir: %v", err)
	}

	custom, err := GetLogPath(Config{LogFile: "/tmp/custom.log"})
	if err != nil {
		t.Fatalf("GetLogPath() error = %v", err)
	}
	if custom != "/tmp/custom.log" {
		t.Errorf("GetLogPath() = %q, want configured log file", custom)
	}
}

func TestLoadConfig(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	tests := []struct {
		name    string
		setup   func()
		want    Config
		wantErr bool
	}{
		{
			name: "valid config",
			setup: func() {
				cfg := Config{
					APIURL:   "https://api.safehomi.test",
					LogLevel: "debug",
				}
				if err := SaveConfig(cfg); err != nil {
					t.Fatalf("SaveConfig() error = %v", err)
				}
			},
			want: Config{
				APIURL:   "https://api.safehomi.test",
				LogLevel: "debug",
			},
		},
		{
			name: "missing config file",
			setup: func() {
				path, err := GetConfigPath()
				if err == nil {
					if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
						t.Logf("failed to remove config file: %v", err)
					}
				}
			},
			want: Config{},
		},
		{
			name: "invalid json",
			setup: func() {
				path, _ := GetConfigPath()
				if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			got, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("LoadConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	tests := []struct {
		name    string
		env     map[string]string
		in      Config
		wantURL string
		wantErr bool
	}{
		{
			name:    "defaults",
			in:      Config{},
			wantURL: DefaultAPIURL,
		},
		{
			name:    "trailing slash trimmed",
			in:      Config{APIURL: "https://api.safehomi.test/"},
			wantURL: "https://api.safehomi.test",
		},
		{
			name:    "env override",
			env:     map[string]string{EnvAPIURL: "https://env.safehomi.test"},
			in:      Config{APIURL: "https://file.safehomi.test"},
			wantURL: "https://env.safehomi.test",
		},
		{
			name:    "invalid url",
			in:      Config{APIURL: "not a url"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			in:      Config{LogLevel: "loud"},
			wantErr: true,
		},
		{
			name:    "invalid timeout",
			in:      Config{Timeout: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := Resolve(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.APIURL != tt.wantURL {
				t.Errorf("Resolve() APIURL = %q, want %q", got.APIURL, tt.wantURL)
			}
			if got.LogLevel == "" {
				t.Error("Resolve() left LogLevel empty")
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Config{}
	if cfg.RequestTimeout() != DefaultTimeout {
		t.Errorf("RequestTimeout() = %v, want %v", cfg.RequestTimeout(), DefaultTimeout)
	}
	if cfg.NotifyDuration() != DefaultNotifyTimeout {
		t.Errorf("NotifyDuration() = %v, want %v", cfg.NotifyDuration(), DefaultNotifyTimeout)
	}

	cfg = Config{Timeout: "5s", NotifyTimeout: "1500ms"}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", cfg.RequestTimeout())
	}
	if cfg.NotifyDuration() != 1500*time.Millisecond {
		t.Errorf("NotifyDuration() = %v, want 1.5s", cfg.NotifyDuration())
	}
}

func TestImageBase(t *testing.T) {
	cfg := Config{APIURL: "https://api.safehomi.test"}
	if got := cfg.ImageBase(); got != "https://api.safehomi.test" {
		t.Errorf("ImageBase() = %q, want api url fallback", got)
	}
	cfg.ImageBaseURL = "https://cdn.safehomi.test/uploads/"
	if got := cfg.ImageBase(); got != "https://cdn.safehomi.test/uploads" {
		t.Errorf("ImageBase() = %q, want trimmed image base", got)
	}
}

func TestSet(t *testing.T) {
	var cfg Config
	if err := cfg.Set("api_url", "https://api.safehomi.test"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.APIURL != "https://api.safehomi.test" {
		t.Errorf("Set() APIURL = %q", cfg.APIURL)
	}
	if err := cfg.Set("colour", "blue"); err == nil {
		t.Error("Set() with unknown key should fail")
	}
}

func TestSaveConfigTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Config{APIURL: "https://api.safehomi.test", Timeout: "10s"}
	if err := SaveConfigTo(path, want); err != nil {
		t.Fatalf("SaveConfigTo() error = %v", err)
	}
	got, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if got != want {
		t.Errorf("LoadConfigFrom() = %+v, want %+v", got, want)
	}
}
