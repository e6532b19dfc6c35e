package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/httputil"
	"inkwell/internal/search"
)

// SearchHandler handles search widget requests
type SearchHandler struct {
	client search.Client
	logger *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(client search.Client, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		client: client,
		logger: logger,
	}
}

// Search performs a web search for the search widget.
// GET /api/search?q={query}&max_results={n}
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "q query parameter is required", "")
		return
	}

	maxResults := 0
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "max_results must be a positive integer", "")
			return
		}
		maxResults = n
	}

	resp, err := h.client.Search(r.Context(), query, search.Options{MaxResults: maxResults})
	if err != nil {
		h.logger.Error("search failed", "query", query, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "Search provider unavailable", "")
		return
	}

	httputil.RespondData(w, http.StatusOK, resp)
}
