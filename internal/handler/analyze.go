package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/msomdec/factcheck/internal/domain"
	"github.com/msomdec/factcheck/internal/service"
	"github.com/msomdec/factcheck/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// AnalyzeHandler serves the analysis form, its streaming variant and the JSON API.
type AnalyzeHandler struct {
	analysis *service.AnalysisService
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analysis *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis}
}

// readAnalyzeForm reads the mode, url and text fields. Without an explicit
// mode, pasted text wins only when no URL was given.
func readAnalyzeForm(r *http.Request) view.AnalyzeForm {
	f := view.AnalyzeForm{
		Mode: r.FormValue("mode"),
		URL:  strings.TrimSpace(r.FormValue("url")),
		Text: r.FormValue("text"),
	}
	if f.Mode != "url" && f.Mode != "text" {
		f.Mode = "url"
		if f.URL == "" && strings.TrimSpace(f.Text) != "" {
			f.Mode = "text"
		}
	}
	return f
}

func (h *AnalyzeHandler) run(ctx context.Context, username string, f view.AnalyzeForm) (*domain.Analysis, error) {
	if f.Mode == "text" {
		return h.analysis.AnalyzeText(ctx, username, f.Text)
	}
	return h.analysis.AnalyzeURL(ctx, username, f.URL)
}

// HandleAnalyzePage renders the empty analysis form.
func (h *AnalyzeHandler) HandleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())
	view.AnalyzePage(username, view.AnalyzeForm{Mode: "url"}, nil).Render(r.Context(), w)
}

// HandleAnalyzeForm runs an analysis from a plain form post and renders the
// page with the result or the error.
func (h *AnalyzeHandler) HandleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())
	form := readAnalyzeForm(r)

	a, err := h.run(r.Context(), username, form)
	if err != nil {
		status, msg := analysisError(err)
		w.WriteHeader(status)
		view.AnalyzePage(username, form, view.AnalysisError(msg)).Render(r.Context(), w)
		return
	}

	view.AnalyzePage(username, form, view.AnalysisResult(a)).Render(r.Context(), w)
}

// HandleAnalyzeStream runs an analysis and reports progress over SSE:
// status lines while fetching and generating, then the result or error.
func (h *AnalyzeHandler) HandleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := UsernameFromContext(ctx)
	form := readAnalyzeForm(r)

	sse := datastar.NewSSE(w, r)
	patch := func(c templ.Component, id string) {
		if err := sse.PatchElementTempl(c, datastar.WithSelectorID(id), datastar.WithModeInner()); err != nil {
			slog.Warn("patch analysis element", "id", id, "error", err)
		}
	}
	fail := func(err error) {
		_, msg := analysisError(err)
		patch(templ.NopComponent, view.StatusID)
		patch(view.AnalysisError(msg), view.ResultID)
	}

	patch(templ.NopComponent, view.ResultID)

	source, title, text := domain.SourcePastedText, "", form.Text
	if form.Mode == "url" {
		patch(view.AnalysisStatus("Fetching article..."), view.StatusID)
		article, err := h.analysis.FetchArticle(ctx, form.URL)
		if err != nil {
			fail(err)
			return
		}
		source, title, text = form.URL, article.Title, article.Text
	}

	patch(view.AnalysisStatus("Analyzing article. This can take a minute..."), view.StatusID)
	a, err := h.analysis.Analyze(ctx, username, source, title, text)
	if err != nil {
		fail(err)
		return
	}

	patch(templ.NopComponent, view.StatusID)
	patch(view.AnalysisResult(a), view.ResultID)
}

// HandleAnalyze runs an analysis from JSON.
// POST /api/analyze
// Request:  {"url":"..."} or {"text":"..."}
// Response: {"analysis": {...}}
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL  string `json:"url"`
		Text string `json:"text"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	form := view.AnalyzeForm{Mode: "url", URL: strings.TrimSpace(req.URL), Text: req.Text}
	if form.URL == "" {
		form.Mode = "text"
	}

	a, err := h.run(r.Context(), UsernameFromContext(r.Context()), form)
	if err != nil {
		status, msg := analysisError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": toAnalysisDTO(a),
	})
}
