package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/content"
	"inkwell/internal/convert"
	"inkwell/internal/httputil"
)

// NotionHandler serves portfolio content backed by the Notion workspace.
type NotionHandler struct {
	content    *content.Service
	converters *convert.Registry
	logger     *slog.Logger
}

// NewNotionHandler creates a new Notion content handler
func NewNotionHandler(content *content.Service, converters *convert.Registry, logger *slog.Logger) *NotionHandler {
	return &NotionHandler{
		content:    content,
		converters: converters,
		logger:     logger,
	}
}

// GetContent serves blog listings and individual pages.
// GET /api/notion?type=database
// GET /api/notion?type=page&pageId={id}
func (h *NotionHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if err := validation.Validate(kind, validation.Required, validation.In("database", "page")); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "type must be 'database' or 'page'", "")
		return
	}

	switch kind {
	case "database":
		posts, err := h.content.ListPosts(r.Context())
		if err != nil {
			h.logger.Error("database query failed", "error", err)
			handleError(w, err)
			return
		}
		httputil.RespondData(w, http.StatusOK, posts)

	case "page":
		pageID, err := normalizePageID(r.URL.Query().Get("pageId"))
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "pageId must be a valid UUID", "")
			return
		}

		pc, err := h.content.GetPage(r.Context(), pageID)
		if err != nil {
			h.logger.Error("page fetch failed", "page_id", pageID, "error", err)
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, httputil.Envelope{
			Success:  true,
			Data:     pc,
			Fallback: pc.Fallback,
		})
	}
}

// CreatePostRequest is the POST /api/notion body. Content may arrive in
// any registered format and is converted to markdown before writing.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	Content string `json:"content"`
	Format  string `json:"format"`
}

// Validate implements request validation.
func (req CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Content, validation.Length(0, 100000)),
	)
}

// CreatePost adds a page to the blog database.
// POST /api/notion
func (h *NotionHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	markdown, err := h.converters.Convert(r.Context(), req.Format, []byte(req.Content))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Unsupported content format", err.Error())
		return
	}

	page, err := h.content.CreatePost(r.Context(), &content.CreatePostRequest{
		Title:   req.Title,
		Status:  req.Status,
		Content: markdown,
	})
	if err != nil {
		h.logger.Error("post creation failed", "title", req.Title, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusCreated, page)
}

// normalizePageID accepts page IDs with or without dashes and returns
// the canonical dashed form.
func normalizePageID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
