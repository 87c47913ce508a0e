package auth

import (
	"encoding/json"
	"fmt"

	"github.com/hitoshi/careerpath/internal/localstore"
	"github.com/hitoshi/careerpath/internal/model"
)

// FallbackStore はIdP未設定時のフォールバックセッションをローカルストアに保存する。
type FallbackStore struct {
	store localstore.Store
}

// NewFallbackStore はFallbackStoreを生成する。
func NewFallbackStore(store localstore.Store) *FallbackStore {
	return &FallbackStore{store: store}
}

// Load は保存済みのフォールバックセッションを読み出す。
// 保存が無い場合は (nil, nil)。破損したエントリは削除してエラーを返す。
func (f *FallbackStore) Load() (*model.FallbackSession, error) {
	raw, ok := f.store.Get(localstore.KeyFallbackSession)
	if !ok {
		return nil, nil
	}
	var sess model.FallbackSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		f.store.Delete(localstore.KeyFallbackSession)
		return nil, fmt.Errorf("corrupt fallback session: %w", err)
	}
	return &sess, nil
}

// Save はフォールバックセッションを保存する。
func (f *FallbackStore) Save(sess *model.FallbackSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode fallback session: %w", err)
	}
	f.store.Set(localstore.KeyFallbackSession, string(raw))
	return nil
}

// Clear はフォールバックセッションを削除する。
func (f *FallbackStore) Clear() {
	f.store.Delete(localstore.KeyFallbackSession)
}
