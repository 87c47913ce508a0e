package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/careerpath/internal/auth"
	"github.com/hitoshi/careerpath/internal/middleware"
	"github.com/hitoshi/careerpath/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Configured() bool
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, error)
	DemoLogin(email, password string) (*model.User, error)
	Logout(ctx context.Context, sessionID string)
}

// UserResolverInterface は現在のユーザーの解決インターフェース。
type UserResolverInterface interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// CallbackPollerInterface はコールバック完了状態の評価インターフェース。
type CallbackPollerInterface interface {
	Run(ctx context.Context, in auth.PollInput) string
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// DemoLoginRecorder はデモログインのメトリクス記録インターフェース。
type DemoLoginRecorder interface {
	RecordDemoLogin()
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	resolver UserResolverInterface
	poller   CallbackPollerInterface
	metrics  DemoLoginRecorder
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, resolver UserResolverInterface, poller CallbackPollerInterface, metrics DemoLoginRecorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		resolver: resolver,
		poller:   poller,
		metrics:  metrics,
		config:   config,
	}
}

// loginRequest はデモログインのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login はメールアドレスとパスワードによるログインを処理する。
// IdP未設定時のデモクレデンシャルのみを受け付ける。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
		return
	}

	user, err := h.service.DemoLogin(req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDemoLogin()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": userResponse(user),
	})
}

// ProviderLogin はIdPのOAuthフローを開始する。
// GET /auth/provider/login
func (h *AuthHandler) ProviderLogin(w http.ResponseWriter, r *http.Request) {
	if !h.service.Configured() {
		http.Redirect(w, r, "/login?error=config_error", http.StatusTemporaryRedirect)
		return
	}

	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusTemporaryRedirect)
}

// Callback はIdPからのOAuthコールバックを処理する。
// 認可コードをセッションに交換し、Cookieを設定してnextパラメータへリダイレクトする。
// GET /auth/callback?code=xxx&next=/dashboard
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/dashboard"
	}

	if !h.service.Configured() {
		http.Redirect(w, r, "/login?error=config_error", http.StatusTemporaryRedirect)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=no_code", http.StatusTemporaryRedirect)
		return
	}

	session, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		http.Redirect(w, r, "/login?error=auth_failed", http.StatusTemporaryRedirect)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, next, http.StatusTemporaryRedirect)
}

// CallbackComplete はコールバック後のセッション確立を待機してリダイレクト先を決定する。
// GET /auth/callback/complete?code=xxx
func (h *AuthHandler) CallbackComplete(w http.ResponseWriter, r *http.Request) {
	dest := h.poller.Run(r.Context(), auth.PollInput{
		Code:       r.URL.Query().Get("code"),
		ErrorParam: r.URL.Query().Get("error"),
	})
	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	h.service.Logout(r.Context(), sessionID)

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	user, err := h.resolver.CurrentUser(r.Context(), sessionID)
	if err != nil || user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": userResponse(user),
	})
}

// userResponse はユーザーのAPI表現を返す。
func userResponse(user *model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	}
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
