package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/careerpath/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByUserID は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, avatar_url, bio, skills, goals, streak_count, last_login_date, created_at, updated_at
		 FROM profiles
		 WHERE id = $1`,
		userID,
	).Scan(
		&profile.ID, &profile.Username, &profile.AvatarURL, &profile.Bio,
		pq.Array(&profile.Skills), &profile.Goals, &profile.StreakCount,
		&profile.LastLoginDate, &profile.CreatedAt, &profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// Upsert はプロフィールを作成または更新し、更新後の値を返す。
// nilのフィールドはCOALESCEで既存の値を維持する。
func (r *PostgresProfileRepo) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	updated := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO profiles (id, username, avatar_url, bio, skills, goals, streak_count, updated_at)
		 VALUES ($1, $2, $3, $4, COALESCE($5, '{}'), $6, COALESCE($7, 0), now())
		 ON CONFLICT (id) DO UPDATE SET
		     username = COALESCE($2, profiles.username),
		     avatar_url = COALESCE($3, profiles.avatar_url),
		     bio = COALESCE($4, profiles.bio),
		     skills = COALESCE($5, profiles.skills),
		     goals = COALESCE($6, profiles.goals),
		     streak_count = COALESCE($7, profiles.streak_count),
		     updated_at = now()
		 RETURNING id, username, avatar_url, bio, skills, goals, streak_count, last_login_date, created_at, updated_at`,
		profile.ID, profile.Username, profile.AvatarURL, profile.Bio,
		skillsParam(profile.Skills), profile.Goals, streakParam(profile.StreakCount),
	).Scan(
		&updated.ID, &updated.Username, &updated.AvatarURL, &updated.Bio,
		pq.Array(&updated.Skills), &updated.Goals, &updated.StreakCount,
		&updated.LastLoginDate, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return updated, nil
}

// skillsParam はスキル未指定（nilスライス）をSQLのNULLにマッピングする。
func skillsParam(skills []string) interface{} {
	if skills == nil {
		return nil
	}
	return pq.Array(skills)
}

// streakParam はゼロ値を「未指定」として扱い、既存値を維持させる。
func streakParam(streak int) interface{} {
	if streak == 0 {
		return nil
	}
	return streak
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
