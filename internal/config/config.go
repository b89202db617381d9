// Package config manages homeadmin configuration settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
)

const (
	configDirName   = "homeadmin"
	configFileName  = "config.json"
	sessionFileName = "session.yaml"
	logFileName     = "homeadmin.log"

	DefaultAPIURL        = "http://localhost:8089"
	DefaultTimeout       = 30 * time.Second
	DefaultNotifyTimeout = 3 * time.Second
	DefaultLogLevel      = "info"

	EnvAPIURL       = "HOMEADMIN_API_URL"
	EnvImageBaseURL = "HOMEADMIN_IMAGE_BASE_URL"
)

// ErrUnknownKey is returned by Set for keys that are not part of Config.
var ErrUnknownKey = errors.New("unknown config key")

type Config struct {
	APIURL        string `json:"api_url,omitempty" validate:"required,url"`
	ImageBaseURL  string `json:"image_base_url,omitempty" validate:"omitempty,url"`
	Timeout       string `json:"timeout,omitempty"`
	NotifyTimeout string `json:"notify_timeout,omitempty"`
	LogLevel      string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFile       string `json:"log_file,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func GetConfigDir() (string, error) {
	return filepath.Join(xdg.ConfigHome, configDirName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// GetSessionPath returns the file holding the operator's login token.
func GetSessionPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// GetLogPath returns the log file path, creating its directory.
func GetLogPath(cfg Config) (string, error) {
	if strings.TrimSpace(cfg.LogFile) != "" {
		return cfg.LogFile, nil
	}
	dir := filepath.Join(xdg.StateHome, configDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(dir, logFileName), nil
}

func LoadConfig() (Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadConfigFrom(path)
}

func LoadConfigFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func SaveConfig(cfg Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(path, cfg)
}

func SaveConfigTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Resolve fills defaults, applies environment overrides and validates the result.
func Resolve(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvImageBaseURL)); v != "" {
		cfg.ImageBaseURL = v
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", jsonKey(fe.StructField()), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := parseDuration(c.Timeout, DefaultTimeout); err != nil {
		return fmt.Errorf("invalid config: timeout: %w", err)
	}
	if _, err := parseDuration(c.NotifyTimeout, DefaultNotifyTimeout); err != nil {
		return fmt.Errorf("invalid config: notify_timeout: %w", err)
	}
	return nil
}

// RequestTimeout is the per-request timeout for backend calls.
func (c Config) RequestTimeout() time.Duration {
	d, _ := parseDuration(c.Timeout, DefaultTimeout)
	return d
}

// NotifyDuration is how long a notification stays visible.
func (c Config) NotifyDuration() time.Duration {
	d, _ := parseDuration(c.NotifyTimeout, DefaultNotifyTimeout)
	return d
}

// ImageBase returns the prefix used for relative image paths.
func (c Config) ImageBase() string {
	if strings.TrimSpace(c.ImageBaseURL) != "" {
		return strings.TrimRight(c.ImageBaseURL, "/")
	}
	return c.APIURL
}

// Set assigns a value by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "image_base_url":
		c.ImageBaseURL = value
	case "timeout":
		c.Timeout = value
	case "notify_timeout":
		c.NotifyTimeout = value
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	default:
		return fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := []string{"api_url", "image_base_url", "timeout", "notify_timeout", "log_level", "log_file"}
	sort.Strings(keys)
	return keys
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", value)
	}
	return d, nil
}

func jsonKey(field string) string {
	switch field {
	case "APIURL":
		return "api_url"
	case "ImageBaseURL":
		return "image_base_url"
	case "LogLevel":
		return "log_level"
	}
	return strings.ToLower(field)
}
