package handler

import (
	"net/http"

	"github.com/hitoshi/careerpath/internal/localstore"
)

// NotificationHandler は設定通知の表示状態を管理するHTTPハンドラー。
// IdPやAIキーが未設定のとき、クライアントに設定案内の通知を表示するかどうかを返す。
type NotificationHandler struct {
	store          localstore.Store
	authConfigured bool
	aiConfigured   bool
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(store localstore.Store, authConfigured, aiConfigured bool) *NotificationHandler {
	return &NotificationHandler{
		store:          store,
		authConfigured: authConfigured,
		aiConfigured:   aiConfigured,
	}
}

// GetConfig は設定通知の表示状態を返す。
// GET /api/notifications/config
func (h *NotificationHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	_, dismissed := h.store.Get(localstore.KeyConfigNotificationDismissed)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"auth_configured": h.authConfigured,
		"ai_configured":   h.aiConfigured,
		"show":            (!h.authConfigured || !h.aiConfigured) && !dismissed,
	})
}

// Dismiss は設定通知を非表示にする。
// POST /api/notifications/config/dismiss
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.store.Set(localstore.KeyConfigNotificationDismissed, "true")

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
