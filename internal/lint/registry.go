package lint

import (
	"fmt"
	"iter"
	"sync"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
)

// Registry maps dialects to their checkers.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu       sync.RWMutex
	checkers map[Dialect]Checker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[Dialect]Checker)}
}

// DefaultRegistry returns a registry holding the built-in checkers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BungeeCord{})
	r.Register(RedisBungee{})
	return r
}

var defaultRegistry = sync.OnceValue(DefaultRegistry)

// Lint checks doc with the built-in checker for d.
func Lint(doc *document.Node, d Dialect) (iter.Seq[Diagnostic], error) {
	return defaultRegistry().Lint(doc, d)
}

// Register adds a checker. Panics on duplicate dialect to surface misconfiguration early.
func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.checkers[c.Dialect()]; exists {
		panic(fmt.Sprintf("lint registry: duplicate dialect %q", c.Dialect()))
	}
	r.checkers[c.Dialect()] = c
}

// Get returns the checker for the given dialect.
func (r *Registry) Get(d Dialect) (Checker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checkers[d]
	if !ok {
		return nil, fmt.Errorf("%w: no checker registered for %q", ErrUnknownDialect, d)
	}
	return c, nil
}

// Dialects returns the registered dialects in display order.
func (r *Registry) Dialects() []Dialect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Dialect, 0, len(r.checkers))
	for _, d := range Dialects {
		if _, ok := r.checkers[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Lint resolves the checker for d and returns its findings for doc.
func (r *Registry) Lint(doc *document.Node, d Dialect) (iter.Seq[Diagnostic], error) {
	c, err := r.Get(d)
	if err != nil {
		return nil, err
	}
	return c.Check(doc), nil
}

// Collect drains a diagnostic sequence into a slice. The result is never nil.
func Collect(seq iter.Seq[Diagnostic]) []Diagnostic {
	out := []Diagnostic{}
	for d := range seq {
		out = append(out, d)
	}
	return out
}
