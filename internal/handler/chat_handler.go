package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hitoshi/careerpath/internal/model"
)

// ChatServiceInterface はチャットハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	Chat(ctx context.Context, message string, history []string) (string, error)
}

// ChatHandler はAIチャットのHTTPハンドラー。
type ChatHandler struct {
	service ChatServiceInterface
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

// chatRequest はチャットのリクエストボディ。
type chatRequest struct {
	Message             string   `json:"message"`
	ConversationHistory []string `json:"conversationHistory"`
}

// Chat はユーザーの質問にAI応答を返す。
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMessageRequiredError())
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMessageRequiredError())
		return
	}

	response, err := h.service.Chat(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": response,
	})
}
