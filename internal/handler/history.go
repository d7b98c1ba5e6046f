package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/factcheck/internal/service"
	"github.com/msomdec/factcheck/internal/view"
)

// HistoryHandler serves a user's past analyses.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// HandleHistoryPage renders the history list.
func (h *HistoryHandler) HandleHistoryPage(w http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())

	entries, err := h.history.List(r.Context(), username)
	if err != nil {
		slog.Error("list history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.HistoryPage(username, entries).Render(r.Context(), w)
}

// HandleHistory returns the history as JSON, newest first.
// GET /api/history
// Response: {"history": [...]}
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.List(r.Context(), UsernameFromContext(r.Context()))
	if err != nil {
		slog.Error("list history", "error", err)
		writeError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"history": toHistoryEntryDTOs(entries),
	})
}
