// Package localstore はクライアントローカル状態に相当するキー・バリューストアを提供する。
// ブラウザのlocalStorageに保存されていた固定キーのレコード
// （フォールバックセッション、通知の既読フラグ）を外部所有のストアとして抽象化し、
// テストではインメモリ実装に差し替えられるようにする。
package localstore

import "sync"

// 固定キー。このストアに保存されるレコードはこの2種類のみ。
const (
	// KeyFallbackSession はフォールバックセッションのJSONを保持するキー。
	KeyFallbackSession = "mock-auth-session"
	// KeyConfigNotificationDismissed は設定通知の既読フラグを保持するキー。
	KeyConfigNotificationDismissed = "config-notification-dismissed"
)

// Store は固定キーのキー・バリューストアのインターフェース。
type Store interface {
	// Get は指定キーの値を返す。存在しない場合はfalseを返す。
	Get(key string) (string, bool)
	// Set は指定キーに値を保存する。
	Set(key, value string)
	// Delete は指定キーの値を削除する。存在しないキーの削除は何もしない。
	Delete(key string)
}

// MemoryStore はインメモリのStore実装。
// 同時タブ相当の並行アクセスに備えてロックするが、
// 読み取り後の条件付きパージ程度の競合は許容される前提。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get は指定キーの値を返す。
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set は指定キーに値を保存する。
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete は指定キーの値を削除する。
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
