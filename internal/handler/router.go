package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/careerpath/internal/localstore"
	"github.com/hitoshi/careerpath/internal/metrics"
	"github.com/hitoshi/careerpath/internal/middleware"
	"github.com/hitoshi/careerpath/internal/repository"
)

// HealthChecker はヘルスチェックに必要なインターフェース。sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	UserResolver      middleware.UserResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	Poller      CallbackPollerInterface
	AuthConfig  AuthHandlerConfig

	// レジュメ分析・チャット
	ResumeService ResumeServiceInterface
	ChatService   ChatServiceInterface

	// プロフィール・ロードマップ
	ProfileRepo  repository.ProfileRepository
	RoadmapRepo  repository.RoadmapRepository
	ProgressRepo repository.ProgressRepository

	// 通知フラグ
	LocalStore     localstore.Store
	AuthConfigured bool
	AIConfigured   bool

	// 運用
	HealthChecker HealthChecker
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → HTTPMetrics → RouteGuard
//	→ (APIのみ) CSRF → Session → RateLimit(General)
//
// 認証ルート（/auth/*）と/health、/metricsはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewHTTPMetricsMiddleware(deps.Metrics))
	}

	// ページ遷移の認証ガード（API・認証ルートは内部でスキップされる）
	r.Use(middleware.NewRouteGuard(deps.UserResolver))

	// *metrics.Collectorがnilのまま非nilインターフェースになるのを避ける
	var demoRecorder DemoLoginRecorder
	var analysisRecorder AnalysisRecorder
	if deps.Metrics != nil {
		demoRecorder = deps.Metrics
		analysisRecorder = deps.Metrics
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.UserResolver, deps.Poller, demoRecorder, deps.AuthConfig)
	resumeHandler := NewResumeHandler(deps.ResumeService, analysisRecorder)
	chatHandler := NewChatHandler(deps.ChatService)
	profileHandler := NewProfileHandler(deps.ProfileRepo)
	roadmapHandler := NewRoadmapHandler(deps.RoadmapRepo, deps.ProgressRepo)
	notifHandler := NewNotificationHandler(deps.LocalStore, deps.AuthConfigured, deps.AIConfigured)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	csrfConfig := middleware.CSRFConfig{
		CookieSecure: deps.AuthConfig.CookieSecure,
		CookieDomain: deps.AuthConfig.CookieDomain,
	}
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(csrfConfig).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Get("/provider/login", authHandler.ProviderLogin)
		r.Get("/callback", authHandler.Callback)
		r.Get("/callback/complete", authHandler.CallbackComplete)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なAPIルート ---
	// ミドルウェアスタック: CSRF → Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(csrfConfig))
		r.Use(middleware.NewSessionMiddleware(deps.UserResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// レジュメ分析（分析専用レート制限を追加）
		r.With(deps.RateLimiter.AnalyzeMiddleware()).Post("/api/analyze-resume", resumeHandler.AnalyzeResume)
		r.Get("/api/resume-checks", resumeHandler.History)

		// AIチャット
		r.Post("/api/chat", chatHandler.Chat)

		// プロフィール
		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
		})

		// ロードマップと進捗
		r.Route("/api/roadmaps", func(r chi.Router) {
			r.Get("/", roadmapHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", roadmapHandler.Get)
				r.Put("/progress", roadmapHandler.UpdateProgress)
			})
		})

		// 設定通知
		r.Route("/api/notifications/config", func(r chi.Router) {
			r.Get("/", notifHandler.GetConfig)
			r.Post("/dismiss", notifHandler.Dismiss)
		})
	})

	return r
}
