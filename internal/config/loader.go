package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/scaffold"
)

// Default values applied to unset settings.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 1 << 20
	DefaultReadTimeoutMs  = 10000
	DefaultWriteTimeoutMs = 30000
	DefaultLogLevel       = "info"
	DefaultSecretPath     = ".secret_key"
)

// Loader reads the YAML settings file and watches it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Settings
	onChange []func(*Settings)
}

// NewLoader creates a Loader and performs the initial load. A missing file
// is not an error: every setting takes its default.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Path returns the settings file location.
func (l *Loader) Path() string { return l.path }

// Settings returns the current (latest) settings.
func (l *Loader) Settings() *Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the settings reload.
func (l *Loader) OnChange(fn func(*Settings)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the settings on file changes.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := l.Reload(); err != nil {
						// Keep serving with the previous settings.
						slog.Warn("settings reload skipped", "path", l.path, "err", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("settings watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the settings file.
func (l *Loader) Reload() (*Settings, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*Settings), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) load() (*Settings, error) {
	var cfg Settings
	data, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.path, err)
		}
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Settings) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = DefaultAddr
	}
	if cfg.HTTP.MaxUploadBytes == 0 {
		cfg.HTTP.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.HTTP.ReadTimeoutMs == 0 {
		cfg.HTTP.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.HTTP.WriteTimeoutMs == 0 {
		cfg.HTTP.WriteTimeoutMs = DefaultWriteTimeoutMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Secret.Path == "" {
		cfg.Secret.Path = DefaultSecretPath
	}
	if cfg.Scaffold.BungeeCordAPIVersion == "" {
		cfg.Scaffold.BungeeCordAPIVersion = scaffold.DefaultAPIVersion
	}
}
