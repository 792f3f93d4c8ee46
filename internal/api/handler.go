package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/config"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/lint"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/metrics"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/scaffold"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/superbvote"
)

// SuperbVoteFilename is the suggested download name of a converted config.
const SuperbVoteFilename = "superbvote_config.yml"

// Handler holds all HTTP handler dependencies.
type Handler struct {
	settings func() *config.Settings
	checkers *lint.Registry
	tokens   formTokens
	pages    *template.Template
	mux      *http.ServeMux
}

// New creates an HTTP handler and registers all routes. settings is called
// on every request so hot-reloaded values apply immediately.
func New(settings func() *config.Settings, checkers *lint.Registry, secret []byte) http.Handler {
	h := &Handler{
		settings: settings,
		checkers: checkers,
		tokens:   formTokens{secret: secret},
		pages:    parsePages(),
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("GET /yamlchecker/{$}", h.yamlCheckerForm)
	h.mux.HandleFunc("POST /yamlchecker/{$}", h.yamlCheckerSubmit)
	h.mux.HandleFunc("GET /galistenertosuperbvote/{$}", h.converterForm)
	h.mux.HandleFunc("POST /galistenertosuperbvote/{$}", h.converterSubmit)
	h.mux.HandleFunc("GET /bungeecord/pluginhelper/{$}", h.pluginHelperForm)
	h.mux.HandleFunc("POST /bungeecord/pluginhelper/{$}", h.pluginHelperSubmit)

	h.mux.HandleFunc("POST /v1/lint", h.lintAPI)
	h.mux.HandleFunc("POST /v1/convert", h.convertAPI)
	h.mux.HandleFunc("POST /v1/scaffold", h.scaffoldAPI)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// lintResponse is the body of POST /v1/lint.
type lintResponse struct {
	Dialect     lint.Dialect      `json:"dialect"`
	Valid       bool              `json:"valid"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// runLint checks doc and records metrics for the run.
func (h *Handler) runLint(doc *document.Node, d lint.Dialect) ([]lint.Diagnostic, error) {
	seq, err := h.checkers.Lint(doc, d)
	if err != nil {
		return nil, err
	}
	diags := lint.Collect(seq)
	metrics.LintRuns.WithLabelValues(string(d)).Inc()
	for _, diag := range diags {
		metrics.Diagnostics.WithLabelValues(string(d), string(diag.Severity)).Inc()
	}
	return diags, nil
}

// runConvert converts and serializes doc, recording the outcome.
func runConvert(doc *document.Node) ([]byte, error) {
	cfg, err := superbvote.Convert(doc)
	if err != nil {
		metrics.Conversions.WithLabelValues("rejected").Inc()
		return nil, err
	}
	out, err := superbvote.Encode(cfg)
	if err != nil {
		metrics.Conversions.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Conversions.WithLabelValues("ok").Inc()
	metrics.ConvertedRewards.Observe(float64(len(cfg.Rewards)))
	for _, r := range cfg.Rewards {
		metrics.RewardConditions.WithLabelValues(r.If.Kind()).Inc()
	}
	return out, nil
}

// runScaffold builds the plugin archive with the configured API version.
func (h *Handler) runScaffold(p scaffold.Params) ([]byte, error) {
	data, err := scaffold.New(h.settings().Scaffold.BungeeCordAPIVersion).Archive(p)
	switch {
	case err == nil:
		metrics.Scaffolds.WithLabelValues("ok").Inc()
	case errors.Is(err, scaffold.ErrInvalidParams):
		metrics.Scaffolds.WithLabelValues("invalid").Inc()
	default:
		metrics.Scaffolds.WithLabelValues("error").Inc()
	}
	return data, err
}

// POST /v1/lint?dialect={name}: body is the YAML file.
func (h *Handler) lintAPI(w http.ResponseWriter, r *http.Request) {
	d, err := lint.ParseDialect(r.URL.Query().Get("dialect"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadDialect)
		return
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	diags, err := h.runLint(doc, d)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadDialect)
		return
	}
	writeJSON(w, http.StatusOK, lintResponse{Dialect: d, Valid: len(diags) == 0, Diagnostics: diags})
}

// POST /v1/convert: body is the GAListener YAML; responds with SuperbVote YAML.
func (h *Handler) convertAPI(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	out, err := runConvert(doc)
	if err != nil {
		if errors.Is(err, superbvote.ErrNotGAListener) {
			slog.Debug("conversion rejected", "err", err)
			writeError(w, http.StatusUnprocessableEntity, msgNotGAListener)
			return
		}
		slog.Error("conversion failed", "err", err)
		writeError(w, http.StatusInternalServerError, "conversion failed")
		return
	}
	writeAttachment(w, "application/yaml", SuperbVoteFilename, out)
}

// POST /v1/scaffold: JSON plugin parameters; responds with a ZIP archive.
func (h *Handler) scaffoldAPI(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.settings().HTTP.MaxUploadBytes)
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	var p scaffold.Params
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	data, err := h.runScaffold(p)
	if err != nil {
		var verr *scaffold.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "invalid plugin parameters",
				"fields": verr.Fields,
			})
			return
		}
		slog.Error("scaffold failed", "err", err)
		writeError(w, http.StatusInternalServerError, "scaffold failed")
		return
	}
	writeAttachment(w, scaffold.ContentType, scaffold.Filename(p), data)
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readDocument reads and decodes a raw YAML body, writing the error
// response itself when that fails.
func (h *Handler) readDocument(w http.ResponseWriter, r *http.Request) (*document.Node, bool) {
	body, err := readBody(w, r, h.settings().HTTP.MaxUploadBytes)
	if err != nil {
		h.writeReadError(w, err)
		return nil, false
	}
	doc, n := decodeUpload(body)
	if n != nil {
		msg := n.Message
		if n.Detail != "" {
			msg += " " + n.Detail
		}
		writeError(w, http.StatusBadRequest, msg)
		return nil, false
	}
	return doc, true
}

func (h *Handler) writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
