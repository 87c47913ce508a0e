package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/careerpath/internal/model"
	"github.com/hitoshi/careerpath/internal/repository"
)

// ErrNotConfigured はIdPとフォールバックのいずれも利用できない状態を表す。
var ErrNotConfigured = fmt.Errorf("auth provider is not configured")

// Resolver は現在のユーザーを解決する。フォールバックセッションを最優先で参照し、
// 無ければIdP由来のセッションをデータベースで照合する。
type Resolver struct {
	oauth       OAuthProvider
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	fallback    *FallbackStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewResolver はResolverを生成する。
func NewResolver(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	fallback *FallbackStore,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		oauth:       oauth,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		fallback:    fallback,
		logger:      logger,
		now:         time.Now,
	}
}

// CurrentUser はセッションIDから現在のユーザーを解決する。
// 有効なフォールバックセッションがあればそれを返し、期限切れのものは削除する。
// 未認証の場合は (nil, nil)。IdPが未設定でフォールバックも無い場合は ErrNotConfigured。
func (r *Resolver) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	sess, err := r.fallback.Load()
	if err != nil {
		r.logger.Warn("discarded corrupt fallback session", "error", err)
	}
	if sess != nil {
		if sess.Valid(r.now()) {
			return &sess.User, nil
		}
		r.fallback.Clear()
	}

	if r.oauth == nil || !r.oauth.Configured() {
		return nil, ErrNotConfigured
	}

	if sessionID == "" {
		return nil, nil
	}

	session, err := r.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := r.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
