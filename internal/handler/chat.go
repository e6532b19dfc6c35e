package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/httputil"
	"inkwell/internal/llm"
)

// systemPrompt frames the chat widget as a portfolio assistant.
const systemPrompt = "You are a helpful assistant embedded in a personal portfolio site. " +
	"Answer questions about the site's blog posts and projects concisely. " +
	"If you do not know something, say so."

// ChatHandler handles chat widget requests
type ChatHandler struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(provider llm.Provider, model string, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Query   string        `json:"query"`
	History []llm.Message `json:"history"`
}

// Validate implements request validation.
func (req ChatRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Query, validation.Required, validation.Length(1, config.MaxChatQueryLength)),
		validation.Field(&req.History, validation.Each(validation.By(validateMessage))),
	)
}

func validateMessage(value interface{}) error {
	msg, ok := value.(llm.Message)
	if !ok {
		return validation.NewError("validation_invalid_message", "invalid message")
	}
	return validation.ValidateStruct(&msg,
		validation.Field(&msg.Role, validation.Required, validation.In("user", "assistant")),
		validation.Field(&msg.Content, validation.Required),
	)
}

// ChatResponse is the reply payload.
type ChatResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}

// Chat generates an assistant reply for the chat widget.
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	// Keep only the most recent turns; older context matters less and
	// inflates token usage.
	history := req.History
	if len(history) > config.MaxChatHistoryTurns {
		history = history[len(history)-config.MaxChatHistoryTurns:]
	}

	reply, err := h.provider.GenerateReply(r.Context(), &llm.GenerateRequest{
		Model:   h.model,
		System:  systemPrompt,
		Query:   req.Query,
		History: history,
	})
	if err != nil {
		h.logger.Error("chat generation failed", "provider", h.provider.Name(), "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "Chat provider unavailable", "")
		return
	}

	httputil.RespondData(w, http.StatusOK, ChatResponse{
		Reply: reply,
		Model: h.model,
	})
}
