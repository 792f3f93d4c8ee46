package api

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/lint"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/metrics"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/scaffold"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/superbvote"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// notice is a banner shown above a form. HTML, when set, replaces Message.
type notice struct {
	Message string
	HTML    template.HTML
	Class   string
	Detail  string
}

// page is the data passed to every template.
type page struct {
	Title     string
	CSRFToken string
	Notices   []notice

	// yamlchecker
	Dialects    []lint.Dialect
	Dialect     lint.Dialect
	Checked     bool
	Diagnostics []lint.Diagnostic

	// pluginhelper
	Plugin      scaffold.Params
	FieldErrors map[string]string
}

func (h *Handler) newPage(w http.ResponseWriter, r *http.Request, title string) *page {
	return &page{
		Title:     title,
		CSRFToken: h.tokens.issue(w, r),
		Dialects:  h.checkers.Dialects(),
	}
}

func (p *page) fail(n notice) {
	if n.Class == "" {
		n.Class = "formerror"
	}
	p.Notices = append(p.Notices, n)
}

// acceptForm parses a form post and checks its CSRF token. On failure the
// notice has already been added to p and the status to render is returned.
func (h *Handler) acceptForm(w http.ResponseWriter, r *http.Request, p *page) (int, bool) {
	if err := parseForm(w, r, h.settings().HTTP.MaxUploadBytes); err != nil {
		if errors.Is(err, errTooLarge) {
			p.fail(notice{Message: msgTooLarge})
			return http.StatusRequestEntityTooLarge, false
		}
		p.fail(notice{Message: "The form could not be read.", Detail: err.Error()})
		return http.StatusBadRequest, false
	}
	if !h.tokens.verify(r) {
		metrics.UploadsRejected.WithLabelValues("csrf").Inc()
		slog.Warn("form token rejected", "path", r.URL.Path, "remote", r.RemoteAddr)
		p.fail(notice{Message: msgExpired})
		return http.StatusBadRequest, false
	}
	return http.StatusOK, true
}

// upload returns the decoded YAML upload, or the status to re-render with.
func (h *Handler) upload(r *http.Request, p *page) (doc *document.Node, status int) {
	data, err := formFile(r, uploadField)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			p.fail(notice{Message: msgTooLarge})
			return nil, http.StatusRequestEntityTooLarge
		}
		p.fail(notice{Message: "The upload could not be read.", Detail: err.Error()})
		return nil, http.StatusBadRequest
	}
	if data == nil {
		p.fail(notice{Message: msgRequired})
		return nil, http.StatusBadRequest
	}
	doc, n := decodeUpload(data)
	if n != nil {
		p.fail(*n)
		return nil, http.StatusBadRequest
	}
	return doc, http.StatusOK
}

// GET /
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", &page{Title: "Minecraft utilities"})
}

// GET /yamlchecker/
func (h *Handler) yamlCheckerForm(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(w, r, "YAML configuration checker")
	p.Dialect = lint.DialectBungeeCord
	h.render(w, http.StatusOK, "yamlchecker.html", p)
}

// POST /yamlchecker/
func (h *Handler) yamlCheckerSubmit(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(w, r, "YAML configuration checker")
	p.Dialect = lint.DialectBungeeCord
	if status, ok := h.acceptForm(w, r, p); !ok {
		h.render(w, status, "yamlchecker.html", p)
		return
	}

	d, err := lint.ParseDialect(r.FormValue("config_type"))
	if err != nil {
		p.fail(notice{Message: msgBadDialect})
		h.render(w, http.StatusBadRequest, "yamlchecker.html", p)
		return
	}
	p.Dialect = d

	doc, status := h.upload(r, p)
	if doc == nil {
		h.render(w, status, "yamlchecker.html", p)
		return
	}
	diags, err := h.runLint(doc, d)
	if err != nil {
		p.fail(notice{Message: msgBadDialect})
		h.render(w, http.StatusBadRequest, "yamlchecker.html", p)
		return
	}
	p.Checked = true
	p.Diagnostics = diags
	h.render(w, http.StatusOK, "yamlchecker.html", p)
}

// GET /galistenertosuperbvote/
func (h *Handler) converterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "superbvote.html", h.newPage(w, r, "GAListener to SuperbVote"))
}

// POST /galistenertosuperbvote/
func (h *Handler) converterSubmit(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(w, r, "GAListener to SuperbVote")
	if status, ok := h.acceptForm(w, r, p); !ok {
		h.render(w, status, "superbvote.html", p)
		return
	}
	doc, status := h.upload(r, p)
	if doc == nil {
		h.render(w, status, "superbvote.html", p)
		return
	}
	out, err := runConvert(doc)
	if err != nil {
		if !errors.Is(err, superbvote.ErrNotGAListener) {
			slog.Error("conversion failed", "err", err)
		}
		p.fail(notice{Message: msgNotGAListener})
		h.render(w, http.StatusUnprocessableEntity, "superbvote.html", p)
		return
	}
	writeAttachment(w, "application/yaml", SuperbVoteFilename, out)
}

// GET /bungeecord/pluginhelper/
func (h *Handler) pluginHelperForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "pluginhelper.html", h.newPage(w, r, "BungeeCord plugin helper"))
}

// POST /bungeecord/pluginhelper/
func (h *Handler) pluginHelperSubmit(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(w, r, "BungeeCord plugin helper")
	if status, ok := h.acceptForm(w, r, p); !ok {
		h.render(w, status, "pluginhelper.html", p)
		return
	}
	p.Plugin = scaffold.Params{
		Name:            r.FormValue("name"),
		Package:         r.FormValue("package"),
		Author:          r.FormValue("author"),
		Version:         r.FormValue("version"),
		IncludeListener: checkbox(r.FormValue("include_listener")),
	}

	data, err := h.runScaffold(p.Plugin)
	if err != nil {
		var verr *scaffold.ValidationError
		if errors.As(err, &verr) {
			p.FieldErrors = verr.Fields
			h.render(w, http.StatusUnprocessableEntity, "pluginhelper.html", p)
			return
		}
		slog.Error("scaffold failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, scaffold.ContentType, scaffold.Filename(p.Plugin), data)
}

func checkbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}
