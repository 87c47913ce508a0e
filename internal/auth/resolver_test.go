package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/careerpath/internal/localstore"
	"github.com/hitoshi/careerpath/internal/model"
)

func storeFallbackSession(t *testing.T, store localstore.Store, expiresAt time.Time) {
	t.Helper()
	sess := model.FallbackSession{
		User:      model.User{ID: "demo-user", Email: "demo@careerpath.ai", Name: "Demo User"},
		ExpiresAt: expiresAt,
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("failed to marshal fallback session: %v", err)
	}
	store.Set(localstore.KeyFallbackSession, string(raw))
}

func TestResolver_CurrentUser_ValidFallbackSession(t *testing.T) {
	store := localstore.NewMemoryStore()
	storeFallbackSession(t, store, time.Now().Add(time.Hour))

	// フォールバックが有効な場合、IdP設定の有無に関わらず解決できる
	r := NewResolver(&mockOAuthProvider{configured: false}, &mockUserRepo{}, &mockSessionRepo{}, NewFallbackStore(store), testLogger())

	user, err := r.CurrentUser(context.Background(), "")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user == nil || user.ID != "demo-user" {
		t.Errorf("user = %+v, want demo-user", user)
	}
}

func TestResolver_CurrentUser_ExpiredFallbackSessionIsPurged(t *testing.T) {
	store := localstore.NewMemoryStore()
	storeFallbackSession(t, store, time.Now().Add(-time.Hour))

	r := NewResolver(&mockOAuthProvider{configured: false}, &mockUserRepo{}, &mockSessionRepo{}, NewFallbackStore(store), testLogger())

	user, err := r.CurrentUser(context.Background(), "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}

	// 期限切れエントリは削除されていること
	if _, ok := store.Get(localstore.KeyFallbackSession); ok {
		t.Error("expired fallback session should be purged")
	}
}

func TestResolver_CurrentUser_CorruptFallbackSessionIsDiscarded(t *testing.T) {
	store := localstore.NewMemoryStore()
	store.Set(localstore.KeyFallbackSession, "{not valid json")

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Session, error) {
			return &model.Session{ID: "sess-1", UserID: "user-1"}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "user@example.com"}, nil
		},
	}

	r := NewResolver(&mockOAuthProvider{configured: true}, userRepo, sessionRepo, NewFallbackStore(store), testLogger())

	// 破損したフォールバックは無視され、IdPセッションで解決される
	user, err := r.CurrentUser(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user == nil || user.ID != "user-1" {
		t.Errorf("user = %+v, want user-1", user)
	}

	if _, ok := store.Get(localstore.KeyFallbackSession); ok {
		t.Error("corrupt fallback session should be discarded")
	}
}

func TestResolver_CurrentUser_NotConfigured(t *testing.T) {
	r := NewResolver(&mockOAuthProvider{configured: false}, &mockUserRepo{}, &mockSessionRepo{}, NewFallbackStore(localstore.NewMemoryStore()), testLogger())

	_, err := r.CurrentUser(context.Background(), "any-session")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestResolver_CurrentUser_NoSessionID(t *testing.T) {
	r := NewResolver(&mockOAuthProvider{configured: true}, &mockUserRepo{}, &mockSessionRepo{}, NewFallbackStore(localstore.NewMemoryStore()), testLogger())

	user, err := r.CurrentUser(context.Background(), "")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil for anonymous request", user)
	}
}

func TestResolver_CurrentUser_UnknownSession(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, nil
		},
	}

	r := NewResolver(&mockOAuthProvider{configured: true}, &mockUserRepo{}, sessionRepo, NewFallbackStore(localstore.NewMemoryStore()), testLogger())

	user, err := r.CurrentUser(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil for unknown session", user)
	}
}

func TestResolver_CurrentUser_SessionLookupError(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, errors.New("db down")
		},
	}

	r := NewResolver(&mockOAuthProvider{configured: true}, &mockUserRepo{}, sessionRepo, NewFallbackStore(localstore.NewMemoryStore()), testLogger())

	_, err := r.CurrentUser(context.Background(), "sess-1")
	if err == nil {
		t.Fatal("expected error when session lookup fails")
	}
}
