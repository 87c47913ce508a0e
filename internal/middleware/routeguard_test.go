package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hitoshi/careerpath/internal/model"
)

func newGuardHandler(resolver UserResolver) http.Handler {
	mw := NewRouteGuard(resolver)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRouteGuard_ProtectedPathWithoutSession_RedirectsToLogin(t *testing.T) {
	handler := newGuardHandler(&mockUserResolver{})

	tests := []string{"/dashboard", "/profile", "/roadmaps/123", "/resume", "/chat"}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusTemporaryRedirect {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
			}
			loc := resp.Header.Get("Location")
			want := "/login?redirectTo=" + url.QueryEscape(path)
			if loc != want {
				t.Errorf("location = %q, want %q", loc, want)
			}
		})
	}
}

func TestRouteGuard_UnprotectedPath_PassesThrough(t *testing.T) {
	handler := newGuardHandler(&mockUserResolver{})

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRouteGuard_LoginWithSession_RedirectsToDashboard(t *testing.T) {
	resolver := &mockUserResolver{
		currentUserFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "user-1"}, nil
		},
	}
	handler := newGuardHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Errorf("location = %q, want /dashboard", loc)
	}
}

func TestRouteGuard_ProtectedPathWithSession_PassesThrough(t *testing.T) {
	resolver := &mockUserResolver{
		currentUserFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "user-1"}, nil
		},
	}
	handler := newGuardHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRouteGuard_ResolverError_FailsOpen(t *testing.T) {
	resolver := &mockUserResolver{
		currentUserFn: func(_ context.Context, _ string) (*model.User, error) {
			return nil, errors.New("db down")
		},
	}
	handler := newGuardHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// ガードの失敗はリダイレクトせず通過させる
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d (fail open)", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRouteGuard_SkippedPrefixes_BypassResolver(t *testing.T) {
	resolver := &mockUserResolver{
		currentUserFn: func(_ context.Context, _ string) (*model.User, error) {
			t.Error("resolver should not be called for skipped prefixes")
			return nil, nil
		},
	}
	handler := newGuardHandler(resolver)

	tests := []string{"/api/analyze-resume", "/auth/callback", "/health", "/metrics", "/static/app.css", "/favicon.ico"}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Result().StatusCode != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
			}
		})
	}
}
