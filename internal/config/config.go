// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/shepard-terminal/internal/util"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "SHEPARD"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete terminal configuration. The terminal key is not
// part of it; it is only ever entered at the terminal.
type Config struct {
	Authority AuthorityConfig `toml:"authority" json:"authority" yaml:"authority"`
	Input     InputConfig     `toml:"input" json:"input" yaml:"input"`
	Session   SessionConfig   `toml:"session" json:"session" yaml:"session"`
	UI        UIConfig        `toml:"ui" json:"ui" yaml:"ui"`
	Log       LogConfig       `toml:"log" json:"log" yaml:"log"`
}

// AuthorityConfig locates the access authority.
type AuthorityConfig struct {
	// URL is the base URL of the authority API.
	URL string `toml:"url" json:"url" yaml:"url" split_words:"true"`
	// TimeoutSecs bounds every request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs" split_words:"true"`
	// MaxRetries applies to idempotent lookups only.
	MaxRetries int    `toml:"max_retries" json:"max_retries" yaml:"max_retries" split_words:"true"`
	UserAgent  string `toml:"user_agent" json:"user_agent" yaml:"user_agent" split_words:"true"`
}

// InputConfig tunes keyboard handling.
type InputConfig struct {
	// DebounceMs is the minimum gap between accepted navigation keys.
	// Text entry is never debounced. 0 disables debouncing.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms" split_words:"true"`
}

// SessionConfig controls idle auto-lock.
type SessionConfig struct {
	// IdleLockSecs locks an active terminal after this long without a key.
	// 0 disables auto-lock.
	IdleLockSecs int `toml:"idle_lock_secs" json:"idle_lock_secs" yaml:"idle_lock_secs" split_words:"true"`
	// IdleWarningSecs is how long before the lock a warning is shown.
	IdleWarningSecs int `toml:"idle_warning_secs" json:"idle_warning_secs" yaml:"idle_warning_secs" split_words:"true"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme   string `toml:"theme" json:"theme" yaml:"theme" split_words:"true"`
	NoColor bool   `toml:"no_color" json:"no_color" yaml:"no_color" split_words:"true"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Path is the log file. Empty means ~/.shepard/terminal.log.
	Path  string `toml:"path" json:"path" yaml:"path" split_words:"true"`
	Level string `toml:"level" json:"level" yaml:"level" split_words:"true"`
}

// Timeout returns the request timeout.
func (a AuthorityConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// Debounce returns the navigation debounce interval.
func (i InputConfig) Debounce() time.Duration {
	return time.Duration(i.DebounceMs) * time.Millisecond
}

// IdleLock returns the auto-lock interval, or 0 when disabled.
func (s SessionConfig) IdleLock() time.Duration {
	return time.Duration(s.IdleLockSecs) * time.Second
}

// IdleWarning returns the warning lead time.
func (s SessionConfig) IdleWarning() time.Duration {
	return time.Duration(s.IdleWarningSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration with every value set to its default.
func Default() *Config {
	return &Config{
		Authority: AuthorityConfig{
			URL:         "http://localhost:8000",
			TimeoutSecs: 15,
			MaxRetries:  3,
			UserAgent:   "shepard-terminal",
		},
		Input: InputConfig{
			DebounceMs: 150,
		},
		Session: SessionConfig{
			IdleLockSecs:    300,
			IdleWarningSecs: 30,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills blank or out-of-range values that have a safe default.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Authority.URL == "" {
		c.Authority.URL = d.Authority.URL
	}
	c.Authority.URL = strings.TrimRight(c.Authority.URL, "/")
	if c.Authority.TimeoutSecs <= 0 {
		c.Authority.TimeoutSecs = d.Authority.TimeoutSecs
	}
	if c.Authority.UserAgent == "" {
		c.Authority.UserAgent = d.Authority.UserAgent
	}
	if c.Input.DebounceMs < 0 {
		c.Input.DebounceMs = d.Input.DebounceMs
	}
	if c.Session.IdleWarningSecs < 0 {
		c.Session.IdleWarningSecs = 0
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the terminal's configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".shepard"), nil
}

// DefaultPath returns the path of the default TOML config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the log file used when log.path is empty.
func DefaultLogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "terminal.log"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file at path (the default path when empty). A
// missing file yields the defaults. Environment overrides are applied
// after the file, then defaults are filled and the result validated.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := decodeFile(cfg, path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decodeFile decodes path onto cfg, choosing the format by extension.
// Keys absent from the file keep the values already in cfg.
func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML config: %w", err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies SHEPARD_* environment variables, for example
// SHEPARD_AUTHORITY_URL or SHEPARD_LOG_LEVEL. Unset variables leave the
// current value alone.
func (c *Config) ApplyEnvOverrides() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// SaveTOML writes cfg to path atomically with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# ShepardOS terminal configuration\n")
	buf.WriteString("# Environment variables prefixed SHEPARD_ override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every validation failure.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every value and returns ValidateErrors when any is bad.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Authority.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "authority.url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http or https URL", c.Authority.URL),
		})
	}
	if c.Authority.TimeoutSecs < 1 || c.Authority.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "authority.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.Authority.TimeoutSecs),
		})
	}
	if c.Authority.MaxRetries < 0 || c.Authority.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "authority.max_retries",
			Message: fmt.Sprintf("must be between 0 and 10, got %d", c.Authority.MaxRetries),
		})
	}

	if c.Input.DebounceMs > 2000 {
		errs = append(errs, ValidationError{
			Field:   "input.debounce_ms",
			Message: fmt.Sprintf("must be at most 2000, got %d", c.Input.DebounceMs),
		})
	}

	if c.Session.IdleLockSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "session.idle_lock_secs",
			Message: "cannot be negative",
		})
	}
	if c.Session.IdleLockSecs > 0 && c.Session.IdleWarningSecs >= c.Session.IdleLockSecs {
		errs = append(errs, ValidationError{
			Field:   "session.idle_warning_secs",
			Message: fmt.Sprintf("must be less than idle_lock_secs (%d)", c.Session.IdleLockSecs),
		})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the configuration as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
