package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// 認証プロバイダー（ホスト型IdP）
	// AuthProviderURLが空またはプレースホルダーの場合、
	// プロバイダー連携は無効になりフォールバックセッションのみが使われる。
	AuthProviderURL  string
	AuthProviderKey  string
	AuthClientID     string
	AuthClientSecret string

	// AIモデル
	GeminiAPIKey string
	GeminiModel  string

	// Session
	SessionMaxAge int

	// Rate Limit
	RateLimitGeneral int
	RateLimitAnalyze int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string

	// AI呼び出しのタイムアウト
	ModelCallTimeout time.Duration
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// 認証プロバイダーとGeminiのキーは必須としない:
// 未設定時はそれぞれフォールバック認証・分析機能の無効化で縮退する。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.AuthProviderURL = os.Getenv("AUTH_PROVIDER_URL")
	cfg.AuthProviderKey = os.Getenv("AUTH_PROVIDER_KEY")
	cfg.AuthClientID = os.Getenv("AUTH_CLIENT_ID")
	cfg.AuthClientSecret = os.Getenv("AUTH_CLIENT_SECRET")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "gemini-2.0-flash")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAnalyze = getEnvInt("RATE_LIMIT_ANALYZE", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.ModelCallTimeout = getEnvDuration("MODEL_CALL_TIMEOUT", 60*time.Second)

	return cfg, nil
}

// AuthConfigured は認証プロバイダーが利用可能な設定かどうかを返す。
// URLが空、またはプレースホルダーのままの場合はfalse。
func (c *Config) AuthConfigured() bool {
	if c.AuthProviderURL == "" {
		return false
	}
	return !strings.Contains(c.AuthProviderURL, "placeholder")
}

// AIConfigured はAIモデルが利用可能な設定かどうかを返す。
func (c *Config) AIConfigured() bool {
	return c.GeminiAPIKey != ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
