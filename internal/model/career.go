package model

import "time"

// Profile はユーザーのキャリアプロフィールを表す。
// 任意項目はポインタで表現する（未設定とゼロ値を区別するため）。
type Profile struct {
	ID            string
	Username      *string
	AvatarURL     *string
	Bio           *string
	Skills        []string
	Goals         *string
	StreakCount   int
	LastLoginDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Roadmap は学習ロードマップを表す。
// Stepsはロードマップごとに形が異なるため、JSONのまま保持する。
type Roadmap struct {
	ID          string
	Title       string
	Description *string
	Steps       []byte
	Category    string
	CreatedAt   time.Time
}

// Progress はユーザーごとのロードマップ進捗を表す。
type Progress struct {
	ID                   string
	UserID               string
	RoadmapID            string
	CompletedSteps       []string
	CompletionPercentage int
	CreatedAt            time.Time
}
