package scaffold

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ErrInvalidParams is wrapped by every *ValidationError.
var ErrInvalidParams = errors.New("scaffold: invalid plugin parameters")

// Params describes the plugin to generate.
type Params struct {
	Name            string `json:"name"`
	Package         string `json:"package"`
	Author          string `json:"author"`
	Version         string `json:"version"`
	IncludeListener bool   `json:"include_listener"`
}

// ValidationError maps form field names to a message for that field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidParams, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParams }

const (
	msgRequired     = "This field is required."
	msgNotAlpha     = "Field is not alphanumeric"
	msgBadPackage   = "Field does not have a valid Java package name"
	msgInvalidChars = "Field has invalid characters"
)

var wordChar = regexp.MustCompile(`\w`)

// Validate checks every field and reports all problems at once.
func (p Params) Validate() error {
	fields := make(map[string]string)

	switch {
	case blank(p.Name):
		fields["name"] = msgRequired
	case !isAlpha(p.Name):
		fields["name"] = msgNotAlpha
	}

	switch {
	case blank(p.Package):
		fields["package"] = msgRequired
	case !IsJavaPackage(p.Package):
		fields["package"] = msgBadPackage
	}

	for field, v := range map[string]string{"author": p.Author, "version": p.Version} {
		switch {
		case blank(v):
			fields[field] = msgRequired
		case !wordChar.MatchString(v):
			fields[field] = msgInvalidChars
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// IsJavaPackage reports whether pkg is a dot-separated list of segments made
// of letters and underscores, each containing at least one letter.
func IsJavaPackage(pkg string) bool {
	for _, seg := range strings.Split(pkg, ".") {
		if !isAlpha(strings.ReplaceAll(seg, "_", "")) {
			return false
		}
	}
	return true
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
