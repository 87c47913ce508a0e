package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(2),
		GeneralBurst:    3,
		AnalyzeRate:     rate.Limit(1),
		AnalyzeBurst:    2,
		CleanupInterval: time.Hour,
	}
}

func rateLimitedRequest(handler http.Handler, userID string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Result().StatusCode
}

func TestRateLimiter_General_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		if status := rateLimitedRequest(handler, "user-1"); status != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, status, http.StatusOK)
		}
	}
}

func TestRateLimiter_General_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rateLimitedRequest(handler, "user-1")
	}

	if status := rateLimitedRequest(handler, "user-1"); status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", status, http.StatusTooManyRequests)
	}
}

func TestRateLimiter_General_PerUserIsolation(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 4; i++ {
		rateLimitedRequest(handler, "heavy-user")
	}

	// 他ユーザーは影響を受けない
	if status := rateLimitedRequest(handler, "light-user"); status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
}

func TestRateLimiter_Analyze_IndependentOfGeneral(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	analyze := rl.AnalyzeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 分析バケットを使い切る
	for i := 0; i < 2; i++ {
		if status := rateLimitedRequest(analyze, "user-1"); status != http.StatusOK {
			t.Fatalf("analyze request %d: status = %d, want %d", i+1, status, http.StatusOK)
		}
	}
	if status := rateLimitedRequest(analyze, "user-1"); status != http.StatusTooManyRequests {
		t.Errorf("analyze status = %d, want %d", status, http.StatusTooManyRequests)
	}

	// API全般のバケットは消費されていない
	if status := rateLimitedRequest(general, "user-1"); status != http.StatusOK {
		t.Errorf("general status = %d, want %d", status, http.StatusOK)
	}
}

func TestRateLimiter_MissingUserID_Returns401(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRateLimiter_RetryAfterHeader(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.AnalyzeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rateLimitedRequest(handler, "user-1")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-resume", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header to be set")
	}
}

func TestRateLimiter_Cleanup_RemovesStaleEntries(t *testing.T) {
	config := testRateLimiterConfig()
	config.CleanupInterval = time.Millisecond
	rl := NewRateLimiter(config)
	defer rl.Stop()

	rl.getOrCreateGeneralLimiter("user-1")
	rl.getOrCreateAnalyzeLimiter("user-1")

	// lastAccessを過去にずらしてクリーンアップ対象にする
	rl.generalMu.Lock()
	rl.generalLimiters["user-1"].lastAccess = time.Now().Add(-time.Hour)
	rl.generalMu.Unlock()
	rl.analyzeMu.Lock()
	rl.analyzeLimiters["user-1"].lastAccess = time.Now().Add(-time.Hour)
	rl.analyzeMu.Unlock()

	rl.cleanup()

	if rl.GeneralLimiterCount() != 0 {
		t.Errorf("general limiter count = %d, want 0", rl.GeneralLimiterCount())
	}
	if rl.AnalyzeLimiterCount() != 0 {
		t.Errorf("analyze limiter count = %d, want 0", rl.AnalyzeLimiterCount())
	}
}
