package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// protectedPrefixes は認証が必要なページパスのプレフィックス。
var protectedPrefixes = []string{
	"/dashboard",
	"/profile",
	"/roadmaps",
	"/resume",
	"/chat",
}

// skipPrefixes はルートガードの対象外となるパスのプレフィックス。
var skipPrefixes = []string{
	"/api/",
	"/auth/",
	"/health",
	"/metrics",
	"/static/",
	"/favicon.ico",
}

// NewRouteGuard はページ遷移の認証ガードを返す。
// 保護対象パスに未認証でアクセスした場合は/loginへ、認証済みで/loginに
// アクセスした場合は/dashboardへリダイレクトする。
// ユーザー解決に失敗した場合はログに記録し、リクエストを通過させる。
func NewRouteGuard(resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			user, err := resolver.CurrentUser(r.Context(), sessionIDFromRequest(r))
			if err != nil {
				// ガードの失敗でページ全体を閉ざさない
				slog.Warn("route guard could not resolve user, passing through",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			if user == nil && isProtectedPath(path) {
				dest := "/login?redirectTo=" + url.QueryEscape(path)
				http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
				return
			}

			if user != nil && path == "/login" {
				http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtectedPath はパスが保護対象プレフィックスに一致するかを返す。
func isProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
