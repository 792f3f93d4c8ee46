package lint

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
)

// ErrUnknownDialect is returned when a dialect tag is outside the closed set.
var ErrUnknownDialect = errors.New("lint: unknown configuration dialect")

// Severity grades a diagnostic. The string values double as CSS classes.
type Severity string

const (
	SeverityUrgent  Severity = "urgent"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single linter finding.
type Diagnostic struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func urgent(format string, args ...any) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityUrgent}
}

func warning(format string, args ...any) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// Dialect names a configuration format the linter understands.
type Dialect string

const (
	DialectBungeeCord  Dialect = "bungeecord"
	DialectRedisBungee Dialect = "redisbungee"
)

// Dialects lists every supported dialect in display order.
var Dialects = []Dialect{DialectBungeeCord, DialectRedisBungee}

// Label is the human-readable dialect name used in forms.
func (d Dialect) Label() string {
	switch d {
	case DialectBungeeCord:
		return "BungeeCord"
	case DialectRedisBungee:
		return "RedisBungee"
	}
	return string(d)
}

// ParseDialect maps a form value onto a Dialect.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.TrimSpace(s))
	for _, known := range Dialects {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// Checker inspects a decoded configuration document.
type Checker interface {
	// Dialect returns the dialect this checker is registered under.
	Dialect() Dialect
	// Check yields findings in rule order. The sequence may be ranged over
	// more than once and never mutates doc.
	Check(doc *document.Node) iter.Seq[Diagnostic]
}
