package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/citypooh/Artinerary/internal/chat"
)

// MessageProcessor is the pipeline surface the handler needs.
type MessageProcessor interface {
	Process(ctx context.Context, message string, user chat.User, loc map[string]any) chat.Response
}

// ChatHandler serves the chat message endpoint.
type ChatHandler struct {
	processor MessageProcessor
}

func NewChatHandler(processor MessageProcessor) *ChatHandler {
	return &ChatHandler{processor: processor}
}

func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Post("/message", h.Message)
	})
}

type messageRequest struct {
	Message  string         `json:"message"`
	User     chat.User      `json:"user"`
	Location map[string]any `json:"location,omitempty"`
}

type messageResponse struct {
	ID       string         `json:"id"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata"`
}

// Message processes one chat message and returns the reply envelope.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.User.Username == "" {
		writeError(w, http.StatusBadRequest, "user.username is required")
		return
	}

	resp := h.processor.Process(r.Context(), req.Message, req.User, req.Location)

	out := messageResponse{
		ID:       uuid.NewString(),
		Message:  resp.Message,
		Metadata: resp.Metadata,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("Failed to encode chat response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message},
	})
}
