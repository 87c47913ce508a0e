package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/careerpath/internal/model"
	"github.com/hitoshi/careerpath/internal/repository"
)

const (
	sessionDuration  = 7 * 24 * time.Hour
	fallbackDuration = 24 * time.Hour

	// デモログインの固定クレデンシャル。IdP未設定時のみ有効。
	demoEmail    = "demo@careerpath.ai"
	demoPassword = "demo123"
	demoUserName = "Demo User"
)

// OAuthUserInfo はIdPから取得したユーザー情報。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string
}

// OAuthProvider はIdPに対する認可コード交換を抽象化する。
type OAuthProvider interface {
	Configured() bool
	GetLoginURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// Service は認証フロー全体(OAuthコールバック、デモログイン、ログアウト)を担う。
type Service struct {
	oauth       OAuthProvider
	userRepo    repository.UserRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	fallback    *FallbackStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	fallback *FallbackStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		oauth:       oauth,
		userRepo:    userRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		fallback:    fallback,
		logger:      logger,
		now:         time.Now,
	}
}

// Configured はIdPログインが利用可能かどうかを返す。
func (s *Service) Configured() bool {
	return s.oauth != nil && s.oauth.Configured()
}

// GetLoginURL はIdPの認証URLを返す。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback は認可コードを検証し、ユーザーを解決してセッションを発行する。
// IdP側のユーザーが未登録の場合はユーザーとIDプロバイダー連携を新規作成する。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange failed: %w", err)
	}

	identity, err := s.identRepo.FindByProviderAndProviderUserID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	var userID string
	if identity != nil {
		userID = identity.UserID
	} else {
		user := &model.User{
			ID:        uuid.New().String(),
			Email:     userInfo.Email,
			Name:      userInfo.Name,
			CreatedAt: s.now(),
		}
		ident := &model.Identity{
			ID:             uuid.New().String(),
			UserID:         user.ID,
			Provider:       userInfo.Provider,
			ProviderUserID: userInfo.ProviderUserID,
			CreatedAt:      s.now(),
		}
		if err := s.userRepo.CreateWithIdentity(ctx, user, ident); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		userID = user.ID
		s.logger.Info("new user registered", "user_id", userID, "provider", userInfo.Provider)
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: s.now().Add(sessionDuration),
		CreatedAt: s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// DemoLogin はデモクレデンシャルを検証し、フォールバックセッションを発行する。
// クレデンシャルが一致しない場合はINVALID_CREDENTIALSエラーを返す。
func (s *Service) DemoLogin(email, password string) (*model.User, error) {
	if email != demoEmail || password != demoPassword {
		return nil, model.NewInvalidCredentialsError()
	}

	user := model.User{
		ID:        "demo-user",
		Email:     demoEmail,
		Name:      demoUserName,
		CreatedAt: s.now(),
	}
	sess := model.FallbackSession{
		User:      user,
		ExpiresAt: s.now().Add(fallbackDuration),
	}
	if err := s.fallback.Save(&sess); err != nil {
		return nil, fmt.Errorf("failed to save fallback session: %w", err)
	}

	s.logger.Info("demo login issued", "user_id", user.ID)
	return &user, nil
}

// Logout はIdPセッションとフォールバックセッションの両方を破棄する。
// どちらの破棄に失敗してもログアウト自体は成功として扱う。
func (s *Service) Logout(ctx context.Context, sessionID string) {
	s.fallback.Clear()
	if sessionID == "" {
		return
	}
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete session", "error", err)
	}
}
