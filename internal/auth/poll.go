package auth

import (
	"context"
	"log/slog"
	"time"
)

const (
	firstCheckDelay  = 1000 * time.Millisecond
	secondCheckDelay = 2000 * time.Millisecond
)

// SessionChecker はIdPセッションの確立を確認する。
type SessionChecker interface {
	CheckSession(ctx context.Context) (bool, error)
}

// CallbackPoller はOAuthコールバック完了後のセッション確立を待機して
// リダイレクト先を決定する。IdP側のセッション書き込みが非同期のため、
// 固定ディレイを挟んで最大2回確認する。
type CallbackPoller struct {
	checker    SessionChecker
	fallback   *FallbackStore
	configured bool
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration)
	now        func() time.Time
}

// NewCallbackPoller はCallbackPollerを生成する。
func NewCallbackPoller(checker SessionChecker, fallback *FallbackStore, configured bool, logger *slog.Logger) *CallbackPoller {
	return &CallbackPoller{
		checker:    checker,
		fallback:   fallback,
		configured: configured,
		logger:     logger,
		sleep:      sleepWithContext,
		now:        time.Now,
	}
}

// PollInput はコールバックURLのクエリパラメータ。
type PollInput struct {
	Code       string
	ErrorParam string
}

// Run はコールバック状態を評価してリダイレクト先パスを返す。
func (p *CallbackPoller) Run(ctx context.Context, in PollInput) (result string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("unexpected error during callback handling", "panic", r)
			result = "/login?error=unexpected_error"
		}
	}()

	if in.ErrorParam != "" {
		p.logger.Warn("oauth provider returned error", "error", in.ErrorParam)
		return "/login?error=oauth_failed"
	}

	if in.Code == "" {
		sess, err := p.fallback.Load()
		if err == nil && sess != nil {
			if sess.Valid(p.now()) {
				return "/dashboard"
			}
			p.fallback.Clear()
		}
		return "/login?error=no_session"
	}

	if !p.configured {
		return "/login?error=config_error"
	}

	p.sleep(ctx, firstCheckDelay)
	ok, err := p.checker.CheckSession(ctx)
	if err != nil {
		p.logger.Error("session check failed", "error", err)
		return "/login?error=session_failed"
	}
	if ok {
		return "/dashboard"
	}

	// セッション書き込みの遅延を見込んで一度だけ再試行する。
	// 再試行時のエラーはセッション未確立として扱う。
	p.sleep(ctx, secondCheckDelay)
	ok, _ = p.checker.CheckSession(ctx)
	if ok {
		return "/dashboard"
	}
	return "/login?error=no_session"
}

// sleepWithContext はコンテキストのキャンセルを尊重して待機する。
func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
