package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/careerpath/internal/model"
)

// PostgresResumeCheckRepo はPostgreSQLを使用したレジュメ分析結果リポジトリ。
type PostgresResumeCheckRepo struct {
	db *sql.DB
}

// NewPostgresResumeCheckRepo はPostgresResumeCheckRepoを生成する。
func NewPostgresResumeCheckRepo(db *sql.DB) *PostgresResumeCheckRepo {
	return &PostgresResumeCheckRepo{db: db}
}

// Create は分析結果を保存する。
func (r *PostgresResumeCheckRepo) Create(ctx context.Context, check *model.ResumeCheck) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resume_checks (id, user_id, ats_score, feedback, strengths, weaknesses, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		check.ID, check.UserID, check.ATSScore, check.Feedback,
		pq.Array(check.Strengths), pq.Array(check.Weaknesses), check.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume check: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの分析履歴を新しい順で返す。
func (r *PostgresResumeCheckRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.ResumeCheck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, ats_score, feedback, strengths, weaknesses, created_at
		 FROM resume_checks
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume checks: %w", err)
	}
	defer rows.Close()

	var checks []*model.ResumeCheck
	for rows.Next() {
		check := &model.ResumeCheck{}
		if err := rows.Scan(
			&check.ID, &check.UserID, &check.ATSScore, &check.Feedback,
			pq.Array(&check.Strengths), pq.Array(&check.Weaknesses), &check.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resume check: %w", err)
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resume checks: %w", err)
	}

	return checks, nil
}

// compile-time interface check
var _ ResumeCheckRepository = (*PostgresResumeCheckRepo)(nil)
