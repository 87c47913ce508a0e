package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/careerpath/internal/middleware"
	"github.com/hitoshi/careerpath/internal/model"
)

// maxResumeUploadBytes はレジュメアップロードの上限サイズ。
const maxResumeUploadBytes = 10 << 20 // 10MB

// defaultHistoryLimit はGET /api/resume-checksで返す履歴の上限件数。
const defaultHistoryLimit = 20

// ResumeServiceInterface はレジュメハンドラーが必要とするサービスインターフェース。
type ResumeServiceInterface interface {
	AnalyzeAndSave(ctx context.Context, userID, declaredMIME string, data []byte) (*model.Analysis, bool, error)
	History(ctx context.Context, userID string, limit int) ([]*model.ResumeCheck, error)
}

// AnalysisRecorder はレジュメ分析のメトリクス記録インターフェース。
type AnalysisRecorder interface {
	RecordAnalysisRequest()
	RecordAnalysisSaved()
}

// ResumeHandler はレジュメ分析関連のHTTPハンドラー。
type ResumeHandler struct {
	service ResumeServiceInterface
	metrics AnalysisRecorder
}

// NewResumeHandler はResumeHandlerを生成する。
func NewResumeHandler(service ResumeServiceInterface, metrics AnalysisRecorder) *ResumeHandler {
	return &ResumeHandler{service: service, metrics: metrics}
}

// AnalyzeResume はアップロードされたレジュメを分析する。
// POST /api/analyze-resume (multipart form, field "resume")
func (h *ResumeHandler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAnalysisRequest()
	}

	if err := r.ParseMultipartForm(maxResumeUploadBytes); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewNoFileError())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewNoFileError())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
		return
	}

	declaredMIME := header.Header.Get("Content-Type")

	analysis, saved, err := h.service.AnalyzeAndSave(r.Context(), userID, declaredMIME, data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if saved && h.metrics != nil {
		h.metrics.RecordAnalysisSaved()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
		"saved":    saved,
	})
}

// resumeCheckResponse は保存済み分析結果のAPI表現。
type resumeCheckResponse struct {
	ID         string   `json:"id"`
	ATSScore   int      `json:"ats_score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Feedback   string   `json:"feedback"`
	CreatedAt  string   `json:"created_at"`
}

// History はユーザーの分析履歴を新しい順に返す。
// GET /api/resume-checks
func (h *ResumeHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	checks, err := h.service.History(r.Context(), userID, defaultHistoryLimit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]resumeCheckResponse, 0, len(checks))
	for _, c := range checks {
		resp = append(resp, resumeCheckResponse{
			ID:         c.ID,
			ATSScore:   c.ATSScore,
			Strengths:  c.Strengths,
			Weaknesses: c.Weaknesses,
			Feedback:   c.Feedback,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checks": resp,
	})
}
