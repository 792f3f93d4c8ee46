package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/metrics"
)

const (
	csrfCookie  = "mcutils_csrf"
	csrfField   = "csrf_token"
	uploadField = "yaml_file"
)

// User-facing notices.
const (
	msgSyntax        = "A syntax error was detected."
	msgNotMapping    = "This YAML file does not represent a dictionary (mapping)."
	msgNotGAListener = "This YAML file does not look like a GAListener configuration."
	msgBadDialect    = "This is an invalid configuration type."
	msgRequired      = "This field is required."
	msgTooLarge      = "The uploaded file is too large."
	msgExpired       = "The form has expired. Please try again."
)

const syntaxNoticeHTML = template.HTML(`A syntax error was detected. You may want to use ` +
	`<a href="http://yaml-online-parser.appspot.com/">this tool</a> to determine the problem.`)

var errTooLarge = errors.New("upload too large")

// formTokens implements double-submit CSRF protection: a random nonce lives
// in a cookie and the form carries its HMAC under the process secret.
type formTokens struct {
	secret []byte
}

func (f formTokens) sign(nonce string) string {
	mac := hmac.New(sha256.New, f.secret)
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// issue reuses the caller's nonce cookie when present and returns the token
// to embed in the form.
func (f formTokens) issue(w http.ResponseWriter, r *http.Request) string {
	var nonce string
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		nonce = c.Value
	} else {
		nonce = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     csrfCookie,
			Value:    nonce,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return f.sign(nonce)
}

func (f formTokens) verify(r *http.Request) bool {
	c, err := r.Cookie(csrfCookie)
	if err != nil || c.Value == "" {
		return false
	}
	token := r.FormValue(csrfField)
	return hmac.Equal([]byte(token), []byte(f.sign(c.Value)))
}

// parseForm parses a urlencoded or multipart body no larger than limit.
func parseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return classifyReadError(err)
	}
	if err := r.ParseForm(); err != nil {
		return classifyReadError(err)
	}
	return nil
}

// formFile returns the uploaded file contents, or nil when no file was sent.
func formFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyReadError(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// readBody reads a raw request body no larger than limit.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, classifyReadError(err)
	}
	return data, nil
}

func classifyReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		metrics.UploadsRejected.WithLabelValues("too_large").Inc()
		return errTooLarge
	}
	return err
}

// decodeUpload decodes a YAML upload and translates decoder failures into
// the notice shown to the user.
func decodeUpload(data []byte) (*document.Node, *notice) {
	doc, err := document.Decode(data)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, document.ErrNotMapping):
		metrics.UploadsRejected.WithLabelValues("not_mapping").Inc()
		return nil, &notice{Message: msgNotMapping, Class: "formerror"}
	default:
		metrics.UploadsRejected.WithLabelValues("syntax").Inc()
		return nil, &notice{Message: msgSyntax, HTML: syntaxNoticeHTML, Class: "formerror", Detail: err.Error()}
	}
}
