package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/careerpath/internal/model"
)

// --- モック定義 ---

type mockGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
	prompts    []string
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt)
	}
	return "", errors.New("not implemented")
}

type mockRecorder struct {
	calls     int
	failures  int
	fallbacks int
}

func (m *mockRecorder) RecordModelCall(_ time.Duration) { m.calls++ }
func (m *mockRecorder) RecordModelFailure()             { m.failures++ }
func (m *mockRecorder) RecordAnalysisFallback()         { m.fallbacks++ }

func newTestAIService(gen TextGenerator, rec MetricsRecorder) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gen, rec, logger, time.Minute)
}

// --- テスト ---

func TestService_AnalyzeResume_Success(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return `{"ats_score": 81, "strengths": ["s"], "weaknesses": ["w"], "feedback": "f"}`, nil
		},
	}
	rec := &mockRecorder{}
	svc := newTestAIService(gen, rec)

	analysis, err := svc.AnalyzeResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("AnalyzeResume() error = %v", err)
	}
	if analysis.ATSScore != 81 {
		t.Errorf("ats score = %d, want 81", analysis.ATSScore)
	}
	if rec.calls != 1 || rec.fallbacks != 0 {
		t.Errorf("recorder = %+v, want one call and no fallback", rec)
	}

	// プロンプトに履歴書テキストがそのまま含まれること
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "resume text") {
		t.Errorf("prompt should contain resume text, got %q", gen.prompts)
	}
}

func TestService_AnalyzeResume_ModelError(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	rec := &mockRecorder{}
	svc := newTestAIService(gen, rec)

	_, err := svc.AnalyzeResume(context.Background(), "resume text")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAnalysisFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAnalysisFailed)
	}
	if rec.failures != 1 {
		t.Errorf("failures = %d, want 1", rec.failures)
	}
}

func TestService_AnalyzeResume_UnparseableOutputUsesFallback(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return "Sorry, I can only speak prose.", nil
		},
	}
	rec := &mockRecorder{}
	svc := newTestAIService(gen, rec)

	analysis, err := svc.AnalyzeResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("AnalyzeResume() error = %v", err)
	}
	if analysis.ATSScore != 75 {
		t.Errorf("ats score = %d, want default 75", analysis.ATSScore)
	}
	if analysis.Feedback != "Sorry, I can only speak prose." {
		t.Errorf("feedback = %q, want raw model output", analysis.Feedback)
	}
	if rec.fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", rec.fallbacks)
	}
}

func TestService_AnalyzeResume_ListsClamped(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return `{"ats_score": 60, "strengths": ["1","2","3","4","5","6","7"], "weaknesses": [], "feedback": "f"}`, nil
		},
	}
	svc := newTestAIService(gen, nil)

	analysis, err := svc.AnalyzeResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("AnalyzeResume() error = %v", err)
	}
	if len(analysis.Strengths) != 5 {
		t.Errorf("strengths length = %d, want 5", len(analysis.Strengths))
	}
}

func TestService_AnalyzeResume_NotConfigured(t *testing.T) {
	svc := newTestAIService(nil, nil)

	_, err := svc.AnalyzeResume(context.Background(), "resume text")
	if err == nil {
		t.Fatal("expected error when generator is not configured")
	}
}

func TestService_Chat_ReturnsResponseVerbatim(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return "  Learn Go first.\n", nil
		},
	}
	svc := newTestAIService(gen, nil)

	resp, err := svc.Chat(context.Background(), "What should I learn?", nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp != "  Learn Go first.\n" {
		t.Errorf("response = %q, want verbatim model output", resp)
	}
}

func TestService_Chat_HistoryWindow(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return "ok", nil
		},
	}
	svc := newTestAIService(gen, nil)

	history := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		history = append(history, "turn-"+string(rune('a'+i)))
	}

	if _, err := svc.Chat(context.Background(), "question", history); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	prompt := gen.prompts[0]
	// 直近20件のみが含まれる
	if strings.Contains(prompt, "turn-"+string(rune('a'+9))) {
		t.Error("prompt should not contain turns older than the window")
	}
	if !strings.Contains(prompt, "turn-"+string(rune('a'+10))) {
		t.Error("prompt should contain the oldest turn inside the window")
	}
	if !strings.Contains(prompt, "turn-"+string(rune('a'+29))) {
		t.Error("prompt should contain the newest turn")
	}
}

func TestService_Chat_ModelError(t *testing.T) {
	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("timeout")
		},
	}
	svc := newTestAIService(gen, nil)

	_, err := svc.Chat(context.Background(), "hello", nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeChatFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeChatFailed)
	}
}
