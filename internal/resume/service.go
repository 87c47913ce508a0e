package resume

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/careerpath/internal/model"
	"github.com/hitoshi/careerpath/internal/repository"
)

// Analyzer は履歴書テキストの分析を抽象化する。
type Analyzer interface {
	AnalyzeResume(ctx context.Context, text string) (*model.Analysis, error)
}

// Service は履歴書の抽出・分析・保存のパイプラインを実装する。
type Service struct {
	analyzer Analyzer
	checks   repository.ResumeCheckRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(analyzer Analyzer, checks repository.ResumeCheckRepository, logger *slog.Logger) *Service {
	return &Service{
		analyzer: analyzer,
		checks:   checks,
		logger:   logger,
		now:      time.Now,
	}
}

// AnalyzeAndSave は履歴書ファイルを分析し、結果を履歴として保存する。
// 保存の失敗は分析結果の返却を妨げず、saved=falseで呼び出し元に伝える。
func (s *Service) AnalyzeAndSave(ctx context.Context, userID, declaredMIME string, data []byte) (*model.Analysis, bool, error) {
	text, err := Extract(declaredMIME, data)
	if err != nil {
		return nil, false, err
	}

	analysis, err := s.analyzer.AnalyzeResume(ctx, text)
	if err != nil {
		return nil, false, err
	}

	check := &model.ResumeCheck{
		ID:         uuid.New().String(),
		UserID:     userID,
		ATSScore:   analysis.ATSScore,
		Feedback:   analysis.Feedback,
		Strengths:  analysis.Strengths,
		Weaknesses: analysis.Weaknesses,
		CreatedAt:  s.now(),
	}
	if err := s.checks.Create(ctx, check); err != nil {
		s.logger.Error("failed to save resume check", "user_id", userID, "error", err)
		return analysis, false, nil
	}

	return analysis, true, nil
}

// History はユーザーの分析履歴を新しい順に返す。
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*model.ResumeCheck, error) {
	return s.checks.ListByUserID(ctx, userID, limit)
}
