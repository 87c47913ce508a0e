package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/careerpath/internal/middleware"
	"github.com/hitoshi/careerpath/internal/model"
)

// --- モック定義 ---

type mockProfileRepo struct {
	findByUserIDFn func(ctx context.Context, userID string) (*model.Profile, error)
	upsertFn       func(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, profile)
	}
	return profile, nil
}

func strPtr(s string) *string { return &s }

// --- テスト ---

func TestProfileHandler_Get(t *testing.T) {
	repo := &mockProfileRepo{
		findByUserIDFn: func(_ context.Context, userID string) (*model.Profile, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			return &model.Profile{
				ID:          userID,
				Username:    strPtr("hitoshi"),
				Skills:      []string{"Go", "SQL"},
				StreakCount: 3,
			}, nil
		},
	}
	h := NewProfileHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.Get(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got struct {
		Profile profileResponse `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Profile.Username == nil || *got.Profile.Username != "hitoshi" {
		t.Errorf("username = %v, want hitoshi", got.Profile.Username)
	}
	if len(got.Profile.Skills) != 2 {
		t.Errorf("skills = %v, want 2 entries", got.Profile.Skills)
	}
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	h := NewProfileHandler(&mockProfileRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.Get(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got["error"] != "Profile not found" {
		t.Errorf("error = %q, want %q", got["error"], "Profile not found")
	}
}

func TestProfileHandler_Get_NilSkillsBecomesEmptyArray(t *testing.T) {
	repo := &mockProfileRepo{
		findByUserIDFn: func(_ context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{ID: userID}, nil
		},
	}
	h := NewProfileHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.Get(w, req)

	if body := w.Body.String(); !strings.Contains(body, `"skills":[]`) {
		t.Errorf("body = %q, want skills serialized as []", body)
	}
}

func TestProfileHandler_Update(t *testing.T) {
	var upserted *model.Profile
	repo := &mockProfileRepo{
		upsertFn: func(_ context.Context, profile *model.Profile) (*model.Profile, error) {
			upserted = profile
			return profile, nil
		},
	}
	h := NewProfileHandler(repo)

	body := strings.NewReader(`{"username":"hitoshi","bio":"backend engineer","skills":["Go"],"goals":"become a staff engineer"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/profile", body)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.Update(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if upserted == nil {
		t.Fatal("expected Upsert to be called")
	}
	if upserted.ID != "user-1" {
		t.Errorf("upserted ID = %q, want user-1 (derived from session, not body)", upserted.ID)
	}
	if upserted.Username == nil || *upserted.Username != "hitoshi" {
		t.Errorf("upserted username = %v, want hitoshi", upserted.Username)
	}
	if upserted.AvatarURL != nil {
		t.Errorf("avatar_url = %v, want nil for omitted field", upserted.AvatarURL)
	}
}

func TestProfileHandler_Update_InvalidBody(t *testing.T) {
	h := NewProfileHandler(&mockProfileRepo{})

	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader("not json"))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestProfileHandler_Unauthenticated(t *testing.T) {
	h := NewProfileHandler(&mockProfileRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
