package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/careerpath/internal/middleware"
	"github.com/hitoshi/careerpath/internal/model"
	"github.com/hitoshi/careerpath/internal/repository"
)

// RoadmapHandler はロードマップと進捗のHTTPハンドラー。
type RoadmapHandler struct {
	roadmaps repository.RoadmapRepository
	progress repository.ProgressRepository
}

// NewRoadmapHandler はRoadmapHandlerを生成する。
func NewRoadmapHandler(roadmaps repository.RoadmapRepository, progress repository.ProgressRepository) *RoadmapHandler {
	return &RoadmapHandler{roadmaps: roadmaps, progress: progress}
}

// roadmapResponse はロードマップのAPI表現。
type roadmapResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Steps       json.RawMessage `json:"steps"`
	Category    string          `json:"category"`
}

// progressResponse は進捗のAPI表現。
type progressResponse struct {
	RoadmapID            string   `json:"roadmap_id"`
	CompletedSteps       []string `json:"completed_steps"`
	CompletionPercentage int      `json:"completion_percentage"`
}

func newRoadmapResponse(rm *model.Roadmap) roadmapResponse {
	steps := json.RawMessage(rm.Steps)
	if len(steps) == 0 {
		steps = json.RawMessage("[]")
	}
	return roadmapResponse{
		ID:          rm.ID,
		Title:       rm.Title,
		Description: rm.Description,
		Steps:       steps,
		Category:    rm.Category,
	}
}

func newProgressResponse(p *model.Progress) progressResponse {
	resp := progressResponse{
		RoadmapID:            p.RoadmapID,
		CompletedSteps:       p.CompletedSteps,
		CompletionPercentage: p.CompletionPercentage,
	}
	if resp.CompletedSteps == nil {
		resp.CompletedSteps = []string{}
	}
	return resp
}

// List は全ロードマップとユーザーの進捗を返す。
// GET /api/roadmaps
func (h *RoadmapHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	roadmaps, err := h.roadmaps.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	progressList, err := h.progress.ListByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	progressByRoadmap := make(map[string]*model.Progress, len(progressList))
	for _, p := range progressList {
		progressByRoadmap[p.RoadmapID] = p
	}

	type entry struct {
		roadmapResponse
		Progress *progressResponse `json:"progress"`
	}
	entries := make([]entry, 0, len(roadmaps))
	for _, rm := range roadmaps {
		e := entry{roadmapResponse: newRoadmapResponse(rm)}
		if p, ok := progressByRoadmap[rm.ID]; ok {
			pr := newProgressResponse(p)
			e.Progress = &pr
		}
		entries = append(entries, e)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"roadmaps": entries,
	})
}

// Get は指定ロードマップの詳細とユーザーの進捗を返す。
// GET /api/roadmaps/{id}
func (h *RoadmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	roadmapID := chi.URLParam(r, "id")
	roadmap, err := h.roadmaps.FindByID(r.Context(), roadmapID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if roadmap == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("Roadmap"))
		return
	}

	progress, err := h.progress.FindByUserAndRoadmap(r.Context(), userID, roadmapID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"roadmap": newRoadmapResponse(roadmap),
	}
	if progress != nil {
		pr := newProgressResponse(progress)
		resp["progress"] = pr
	} else {
		resp["progress"] = nil
	}

	writeJSON(w, http.StatusOK, resp)
}

// updateProgressRequest は進捗更新のリクエストボディ。
type updateProgressRequest struct {
	CompletedSteps       []string `json:"completed_steps"`
	CompletionPercentage int      `json:"completion_percentage"`
}

// UpdateProgress はユーザーのロードマップ進捗を冪等に更新する。
// PUT /api/roadmaps/{id}/progress
func (h *RoadmapHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	roadmapID := chi.URLParam(r, "id")
	roadmap, err := h.roadmaps.FindByID(r.Context(), roadmapID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if roadmap == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("Roadmap"))
		return
	}

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrCodeInternal,
			Message: "Invalid request body",
		})
		return
	}
	if req.CompletionPercentage < 0 || req.CompletionPercentage > 100 {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrCodeInternal,
			Message: "completion_percentage must be between 0 and 100",
		})
		return
	}

	updated, err := h.progress.Upsert(r.Context(), &model.Progress{
		ID:                   uuid.New().String(),
		UserID:               userID,
		RoadmapID:            roadmapID,
		CompletedSteps:       req.CompletedSteps,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"progress": newProgressResponse(updated),
	})
}
