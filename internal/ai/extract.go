package ai

import (
	"encoding/json"
	"strings"

	"github.com/hitoshi/careerpath/internal/model"
)

// rawAnalysis はモデル出力をパースする際の中間形。
// フィールド欠落をデフォルト値で補うためポインタで受ける。
type rawAnalysis struct {
	ATSScore   *int     `json:"ats_score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Feedback   *string  `json:"feedback"`
}

const defaultATSScore = 75

// stripFences はモデル出力を囲むMarkdownコードフェンスを除去する。
func stripFences(text string) string {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// extractAnalysis は自由形式のモデル出力からJSONオブジェクトを切り出して
// 分析結果にパースする。最初の '{' から最後の '}' までを候補として扱い、
// パースできない場合は ok=false を返す。
func extractAnalysis(text string) (*model.Analysis, bool) {
	clean := stripFences(text)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end < start {
		return nil, false
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(clean[start:end+1]), &raw); err != nil {
		return nil, false
	}

	analysis := &model.Analysis{
		ATSScore:   defaultATSScore,
		Strengths:  []string{},
		Weaknesses: []string{},
		Feedback:   text,
	}
	if raw.ATSScore != nil && *raw.ATSScore != 0 {
		analysis.ATSScore = *raw.ATSScore
	}
	if raw.Strengths != nil {
		analysis.Strengths = raw.Strengths
	}
	if raw.Weaknesses != nil {
		analysis.Weaknesses = raw.Weaknesses
	}
	if raw.Feedback != nil && *raw.Feedback != "" {
		analysis.Feedback = *raw.Feedback
	}
	return analysis, true
}

// fallbackAnalysis はJSONが取り出せなかった場合の既定の分析結果を返す。
// 生の出力はそのままフィードバックとして保持する。
func fallbackAnalysis(text string) *model.Analysis {
	return &model.Analysis{
		ATSScore:   defaultATSScore,
		Strengths:  []string{"Professional resume format", "Relevant experience"},
		Weaknesses: []string{"Could be more specific", "Add quantifiable achievements"},
		Feedback:   text,
	}
}
