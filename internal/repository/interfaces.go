// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/careerpath/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// ProfileRepository はキャリアプロフィールの永続化インターフェース。
type ProfileRepository interface {
	// FindByUserID は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// Upsert はプロフィールを作成または更新し、更新後の値を返す。
	// 未指定（nil）のフィールドは既存の値を維持する。
	Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

// RoadmapRepository はロードマップデータの読み取りインターフェース。
// ロードマップは運営が投入するコンテンツで、APIからは読み取り専用。
type RoadmapRepository interface {
	// List は全ロードマップをタイトル順で返す。
	List(ctx context.Context) ([]*model.Roadmap, error)

	// FindByID は指定IDのロードマップを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Roadmap, error)
}

// ProgressRepository はユーザーごとのロードマップ進捗の永続化インターフェース。
type ProgressRepository interface {
	// FindByUserAndRoadmap はユーザーIDとロードマップIDで進捗を取得する。
	// 見つからない場合はnilを返す。
	FindByUserAndRoadmap(ctx context.Context, userID, roadmapID string) (*model.Progress, error)

	// ListByUserID はユーザーの全進捗を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Progress, error)

	// Upsert は進捗を冪等にUPSERTし、更新後の値を返す。
	Upsert(ctx context.Context, progress *model.Progress) (*model.Progress, error)
}

// ResumeCheckRepository はレジュメ分析結果の永続化インターフェース。
type ResumeCheckRepository interface {
	// Create は分析結果を保存する。レコードは作成後変更されない。
	Create(ctx context.Context, check *model.ResumeCheck) error

	// ListByUserID はユーザーの分析履歴を新しい順で返す。
	ListByUserID(ctx context.Context, userID string, limit int) ([]*model.ResumeCheck, error)
}
