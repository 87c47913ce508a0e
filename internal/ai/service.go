package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/careerpath/internal/model"
)

// MetricsRecorder はモデル呼び出しのメトリクスを記録する。
type MetricsRecorder interface {
	RecordModelCall(duration time.Duration)
	RecordModelFailure()
	RecordAnalysisFallback()
}

// Service は履歴書分析とチャット応答のユースケースを実装する。
type Service struct {
	gen     TextGenerator
	metrics MetricsRecorder
	logger  *slog.Logger
	timeout time.Duration
}

// NewService はServiceを生成する。genがnilの場合、AI機能は無効として扱う。
func NewService(gen TextGenerator, metrics MetricsRecorder, logger *slog.Logger, timeout time.Duration) *Service {
	return &Service{
		gen:     gen,
		metrics: metrics,
		logger:  logger,
		timeout: timeout,
	}
}

// Configured はAI機能が利用可能かどうかを返す。
func (s *Service) Configured() bool {
	return s.gen != nil
}

// AnalyzeResume は履歴書テキストを分析する。モデル呼び出しの失敗は
// ANALYSIS_FAILEDエラーに変換し、出力がパースできない場合は既定値で補う。
func (s *Service) AnalyzeResume(ctx context.Context, text string) (*model.Analysis, error) {
	if s.gen == nil {
		return nil, model.NewAnalysisFailedError()
	}

	raw, err := s.generate(ctx, buildAnalysisPrompt(text))
	if err != nil {
		s.logger.Error("resume analysis model call failed", "error", err)
		return nil, model.NewAnalysisFailedError()
	}

	analysis, ok := extractAnalysis(raw)
	if !ok {
		s.logger.Warn("model output contained no parseable JSON, using defaults")
		if s.metrics != nil {
			s.metrics.RecordAnalysisFallback()
		}
		analysis = fallbackAnalysis(raw)
	}
	analysis.ClampLists()
	return analysis, nil
}

// Chat はユーザーの質問に対するアシスタント応答を生成する。
// 応答テキストは加工せずそのまま返す。
func (s *Service) Chat(ctx context.Context, message string, history []string) (string, error) {
	if s.gen == nil {
		return "", model.NewChatFailedError()
	}

	resp, err := s.generate(ctx, buildChatPrompt(message, history))
	if err != nil {
		s.logger.Error("chat model call failed", "error", err)
		return "", model.NewChatFailedError()
	}
	return resp, nil
}

// generate はタイムアウト付きでモデルを呼び出し、レイテンシを記録する。
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordModelFailure()
		}
		return "", err
	}
	if s.metrics != nil {
		s.metrics.RecordModelCall(time.Since(start))
	}
	return resp, nil
}
