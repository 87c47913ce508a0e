// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 外部IdP（またはフォールバック認証）が所有する情報で、本コアからは読み取り専用。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はプロバイダー発行のログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// FallbackSession はプロバイダー未設定時に使うローカルキャッシュのセッション。
// ユーザー情報と有効期限を丸ごと埋め込み、ストア上の固定キーに保存される。
// ExpiresAtが過去のものを有効と見なしてはならず、チェック時に必ずパージする。
type FallbackSession struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid はフォールバックセッションが未失効かどうかを返す。
func (s *FallbackSession) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
