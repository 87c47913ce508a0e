package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/careerpath/internal/model"
)

// PostgresRoadmapRepo はPostgreSQLを使用したロードマップリポジトリ。
type PostgresRoadmapRepo struct {
	db *sql.DB
}

// NewPostgresRoadmapRepo はPostgresRoadmapRepoを生成する。
func NewPostgresRoadmapRepo(db *sql.DB) *PostgresRoadmapRepo {
	return &PostgresRoadmapRepo{db: db}
}

// List は全ロードマップをタイトル順で返す。
func (r *PostgresRoadmapRepo) List(ctx context.Context) ([]*model.Roadmap, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, steps, category, created_at
		 FROM roadmaps
		 ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmaps: %w", err)
	}
	defer rows.Close()

	var roadmaps []*model.Roadmap
	for rows.Next() {
		roadmap := &model.Roadmap{}
		if err := rows.Scan(
			&roadmap.ID, &roadmap.Title, &roadmap.Description,
			&roadmap.Steps, &roadmap.Category, &roadmap.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan roadmap: %w", err)
		}
		roadmaps = append(roadmaps, roadmap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roadmaps: %w", err)
	}

	return roadmaps, nil
}

// FindByID は指定IDのロードマップを取得する。見つからない場合はnilを返す。
func (r *PostgresRoadmapRepo) FindByID(ctx context.Context, id string) (*model.Roadmap, error) {
	roadmap := &model.Roadmap{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, steps, category, created_at
		 FROM roadmaps
		 WHERE id = $1`,
		id,
	).Scan(
		&roadmap.ID, &roadmap.Title, &roadmap.Description,
		&roadmap.Steps, &roadmap.Category, &roadmap.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find roadmap: %w", err)
	}

	return roadmap, nil
}

// compile-time interface check
var _ RoadmapRepository = (*PostgresRoadmapRepo)(nil)

// PostgresProgressRepo はPostgreSQLを使用した進捗リポジトリ。
type PostgresProgressRepo struct {
	db *sql.DB
}

// NewPostgresProgressRepo はPostgresProgressRepoを生成する。
func NewPostgresProgressRepo(db *sql.DB) *PostgresProgressRepo {
	return &PostgresProgressRepo{db: db}
}

// FindByUserAndRoadmap はユーザーIDとロードマップIDで進捗を取得する。
// 見つからない場合はnilを返す。
func (r *PostgresProgressRepo) FindByUserAndRoadmap(ctx context.Context, userID, roadmapID string) (*model.Progress, error) {
	progress := &model.Progress{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, roadmap_id, completed_steps, completion_percentage, created_at
		 FROM progress
		 WHERE user_id = $1 AND roadmap_id = $2`,
		userID, roadmapID,
	).Scan(
		&progress.ID, &progress.UserID, &progress.RoadmapID,
		pq.Array(&progress.CompletedSteps), &progress.CompletionPercentage, &progress.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find progress: %w", err)
	}

	return progress, nil
}

// ListByUserID はユーザーの全進捗を返す。
func (r *PostgresProgressRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Progress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, roadmap_id, completed_steps, completion_percentage, created_at
		 FROM progress
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var results []*model.Progress
	for rows.Next() {
		progress := &model.Progress{}
		if err := rows.Scan(
			&progress.ID, &progress.UserID, &progress.RoadmapID,
			pq.Array(&progress.CompletedSteps), &progress.CompletionPercentage, &progress.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		results = append(results, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}

	return results, nil
}

// Upsert は進捗を冪等にUPSERTし、更新後の値を返す。
func (r *PostgresProgressRepo) Upsert(ctx context.Context, progress *model.Progress) (*model.Progress, error) {
	updated := &model.Progress{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO progress (id, user_id, roadmap_id, completed_steps, completion_percentage)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, roadmap_id) DO UPDATE SET
		     completed_steps = $4,
		     completion_percentage = $5
		 RETURNING id, user_id, roadmap_id, completed_steps, completion_percentage, created_at`,
		progress.ID, progress.UserID, progress.RoadmapID,
		pq.Array(progress.CompletedSteps), progress.CompletionPercentage,
	).Scan(
		&updated.ID, &updated.UserID, &updated.RoadmapID,
		pq.Array(&updated.CompletedSteps), &updated.CompletionPercentage, &updated.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	return updated, nil
}

// compile-time interface check
var _ ProgressRepository = (*PostgresProgressRepo)(nil)
