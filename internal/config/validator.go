package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validate checks the settings for:
//   - non-negative upload limit and timeouts
//   - a known log level
//   - a bungeecord-api version Maven can resolve (semantic version, any qualifier)
func Validate(cfg *Settings) error {
	var errs []string

	if cfg.HTTP.Addr == "" {
		errs = append(errs, "http.addr is required")
	}
	if cfg.HTTP.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Sprintf("http.max_upload_bytes must not be negative, got %d", cfg.HTTP.MaxUploadBytes))
	}
	if cfg.HTTP.ReadTimeoutMs < 0 {
		errs = append(errs, fmt.Sprintf("http.read_timeout_ms must not be negative, got %d", cfg.HTTP.ReadTimeoutMs))
	}
	if cfg.HTTP.WriteTimeoutMs < 0 {
		errs = append(errs, fmt.Sprintf("http.write_timeout_ms must not be negative, got %d", cfg.HTTP.WriteTimeoutMs))
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Secret.Path == "" {
		errs = append(errs, "secret.path is required")
	}
	if v := cfg.Scaffold.BungeeCordAPIVersion; v != "" {
		if _, err := semver.NewVersion(v); err != nil {
			errs = append(errs, fmt.Sprintf("scaffold.bungeecord_api_version %q: %s", v, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseLevel maps a log.level setting onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", s)
}
