// Package httpapi implements the HTTP surface that fronts the search
// core: query, build, scheduler control, status reporting, and the
// static web UI.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/orchestrator"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/query"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/apperr"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
)

// Handler serves the search core's HTTP surface.
type Handler struct {
	query   *query.Service
	orch    *orchestrator.Orchestrator
	metrics *metrics.Metrics
	webRoot string
	logger  *slog.Logger
}

// New builds a Handler. metrics may be nil to disable metric recording
// on the query/build paths (the middleware records HTTP-level metrics
// independently).
func New(q *query.Service, orch *orchestrator.Orchestrator, m *metrics.Metrics, webRoot string) *Handler {
	return &Handler{
		query:   q,
		orch:    orch,
		metrics: m,
		webRoot: webRoot,
		logger:  slog.Default().With("component", "httpapi"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code string, err *apperr.AppError) {
	body := map[string]any{"ok": false, "error": code}
	if err.Message != "" {
		body["details"] = err.Message
	}
	writeJSON(w, apperr.HTTPStatusCode(err), body)
}

// Search handles GET /search?q=&topk=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	topK := query.DefaultTopK
	if raw := r.URL.Query().Get("topk"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			topK = v
		}
	}

	start := time.Now()
	resp := h.query.Search(r.Context(), q, topK)
	elapsed := time.Since(start)

	if h.metrics != nil {
		result := "hit"
		if len(resp.Hits) == 0 {
			result = "empty"
		}
		h.metrics.ObserveSearch(result, elapsed)
	}

	hits := resp.Hits
	if hits == nil {
		hits = []query.Hit{}
	}
	terms := resp.Terms
	if terms == nil {
		terms = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"q":       q,
		"terms":   terms,
		"t_ms":    elapsed.Milliseconds(),
		"results": hits,
	})
}

type buildRequest struct {
	DatasetPath string `json:"dataset_path"`
	Threads     int    `json:"threads"`
	Incremental any    `json:"incremental"`
}

func parseIncremental(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(t) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return true
}

// Build handles POST /build.
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_json", apperr.New(apperr.ErrInvalidInput, http.StatusBadRequest, err.Error()))
		return
	}

	dataset := req.DatasetPath
	if dataset == "" {
		dataset = h.orch.DatasetPath()
	}
	threads := req.Threads
	if threads <= 0 {
		threads = h.orch.BuildThreads()
	}
	if threads <= 0 {
		threads = 1
	}
	incremental := true
	if req.Incremental != nil {
		incremental = parseIncremental(req.Incremental)
	}

	if req.DatasetPath == "" && h.orch.DatasetPath() == "" {
		writeError(w, "dataset_path_required", apperr.New(apperr.ErrInvalidInput, http.StatusBadRequest, ""))
		return
	}

	status := h.orch.StartBuild(dataset, threads, incremental)

	if status == orchestrator.StatusAlreadyRunning {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": "already_running"})
		return
	}

	mode := "build"
	if incremental {
		mode = "update"
	}
	if h.metrics != nil {
		h.metrics.IncBuildRun(mode, "started")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"status":       "started",
		"mode":         mode,
		"dataset_path": dataset,
		"threads":      threads,
	})
}

type schedulerRequest struct {
	Enabled   *bool `json:"enabled"`
	IntervalS int   `json:"interval_s"`
}

// Scheduler handles POST /scheduler.
func (h *Handler) Scheduler(w http.ResponseWriter, r *http.Request) {
	var req schedulerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_json", apperr.New(apperr.ErrInvalidInput, http.StatusBadRequest, err.Error()))
		return
	}

	enabled, interval := h.orch.SchedulerState()
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	if req.IntervalS > 0 {
		interval = req.IntervalS
	}

	h.orch.SetScheduler(enabled, interval)
	enabled, interval = h.orch.SchedulerState()

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"enabled":    enabled,
		"interval_s": interval,
	})
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.indexStats(r.Context())
	if err != nil {
		writeError(w, "internal", apperr.New(apperr.ErrInternal, http.StatusInternalServerError, err.Error()))
		return
	}

	enabled, interval := h.orch.SchedulerState()

	last := map[string]any{
		"mode":    nil,
		"dataset": nil,
		"threads": nil,
		"result":  nil,
		"error":   nil,
	}
	if lr, ok := h.orch.LastResult(); ok {
		last["mode"] = lr.Mode
		last["dataset"] = lr.Dataset
		last["threads"] = lr.Threads
		last["result"] = map[string]any{
			"scanned_files": lr.Result.ScannedFiles,
			"indexed_files": lr.Result.IndexedFiles,
			"skipped_files": lr.Result.SkippedFiles,
			"errors":        lr.Result.Errors,
			"elapsed_ms":    lr.Result.ElapsedMs,
		}
		if lr.Error != "" {
			last["error"] = lr.Error
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                   true,
		"building":             h.orch.Building(),
		"dataset_path":         h.orch.DatasetPath(),
		"build_threads":        h.orch.BuildThreads(),
		"scheduler_enabled":    enabled,
		"scheduler_interval_s": interval,
		"index": map[string]any{
			"documents": stats.Documents,
			"terms":     stats.Terms,
			"postings":  stats.Postings,
		},
		"last": last,
	})
}

func (h *Handler) indexStats(ctx context.Context) (index.Stats, error) {
	return h.query.Stats(ctx)
}

// StaticFile serves a single file from the configured web root,
// guessing its content type from the extension.
func (h *Handler) StaticFile(relPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		full := filepath.Join(h.webRoot, filepath.Clean("/"+relPath))
		data, err := os.ReadFile(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		ct := mime.TypeByExtension(filepath.Ext(full))
		if ct == "" {
			ct = "text/plain; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = w.Write(data)
	}
}
