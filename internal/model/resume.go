package model

import "time"

// maxListedPoints は強み・弱みリストの上限件数。
const maxListedPoints = 5

// Analysis はAIによるレジュメ分析の結果を表す。
// 1リクエストの間だけ存在する一時的な値で、そのままは永続化されない。
type Analysis struct {
	ATSScore   int      `json:"ats_score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Feedback   string   `json:"feedback"`
}

// ClampLists は強み・弱みを上限5件に切り詰める。
func (a *Analysis) ClampLists() {
	if len(a.Strengths) > maxListedPoints {
		a.Strengths = a.Strengths[:maxListedPoints]
	}
	if len(a.Weaknesses) > maxListedPoints {
		a.Weaknesses = a.Weaknesses[:maxListedPoints]
	}
}

// ResumeCheck は保存済みのレジュメ分析結果を表す。
// 分析成功ごとに1件作成され、以後変更されない。
type ResumeCheck struct {
	ID         string
	UserID     string
	ATSScore   int
	Feedback   string
	Strengths  []string
	Weaknesses []string
	CreatedAt  time.Time
}
