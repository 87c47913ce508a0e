package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/careerpath/internal/middleware"
	"github.com/hitoshi/careerpath/internal/model"
	"github.com/hitoshi/careerpath/internal/repository"
)

// ProfileHandler はプロフィールのHTTPハンドラー。
type ProfileHandler struct {
	profiles repository.ProfileRepository
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(profiles repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// profileResponse はプロフィールのAPI表現。
type profileResponse struct {
	ID            string   `json:"id"`
	Username      *string  `json:"username"`
	AvatarURL     *string  `json:"avatar_url"`
	Bio           *string  `json:"bio"`
	Skills        []string `json:"skills"`
	Goals         *string  `json:"goals"`
	StreakCount   int      `json:"streak_count"`
	LastLoginDate *string  `json:"last_login_date"`
}

func newProfileResponse(p *model.Profile) profileResponse {
	resp := profileResponse{
		ID:          p.ID,
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		Skills:      p.Skills,
		Goals:       p.Goals,
		StreakCount: p.StreakCount,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if p.LastLoginDate != nil {
		s := p.LastLoginDate.Format(time.RFC3339)
		resp.LastLoginDate = &s
	}
	return resp
}

// Get は現在のユーザーのプロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("Profile"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": newProfileResponse(profile),
	})
}

// updateProfileRequest はプロフィール更新のリクエストボディ。
// 省略されたフィールドは変更しない。
type updateProfileRequest struct {
	Username  *string  `json:"username"`
	AvatarURL *string  `json:"avatar_url"`
	Bio       *string  `json:"bio"`
	Skills    []string `json:"skills"`
	Goals     *string  `json:"goals"`
}

// Update は現在のユーザーのプロフィールを作成または更新する。
// PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrCodeInternal,
			Message: "Invalid request body",
		})
		return
	}

	updated, err := h.profiles.Upsert(r.Context(), &model.Profile{
		ID:        userID,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Skills:    req.Skills,
		Goals:     req.Goals,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": newProfileResponse(updated),
	})
}
