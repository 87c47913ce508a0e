package ai

import (
	"fmt"
	"strings"
)

// historyWindow はチャットプロンプトに含める会話履歴の最大件数。
const historyWindow = 20

const analysisPromptFormat = `Analyze the following resume and provide:
1. An ATS (Applicant Tracking System) score out of 100
2. A list of strengths (max 5 points)
3. A list of weaknesses/areas for improvement (max 5 points)
4. Overall feedback and recommendations

Please format your response as JSON with this structure:
{
  "ats_score": number,
  "strengths": ["strength1", "strength2", ...],
  "weaknesses": ["weakness1", "weakness2", ...],
  "feedback": "detailed feedback and recommendations"
}

Resume content:
%s
`

const chatPromptFormat = `You are CareerPath AI, a helpful career guidance assistant. You specialize in:
- Career advice and planning
- Technical skill development
- Interview preparation
- Resume and portfolio guidance
- Learning path recommendations
- Industry insights for tech careers

Keep your responses helpful, encouraging, and actionable. If the user asks about specific technologies or career paths, provide practical advice and learning resources.

Previous conversation:
%s

User question: %s
`

// buildAnalysisPrompt は履歴書テキストから分析プロンプトを組み立てる。
func buildAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(analysisPromptFormat, resumeText)
}

// buildChatPrompt はユーザーの質問と直近の会話履歴からチャットプロンプトを組み立てる。
// 履歴はプロンプト肥大化を避けるため直近historyWindow件に制限する。
func buildChatPrompt(message string, history []string) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return fmt.Sprintf(chatPromptFormat, strings.Join(history, "\n"), message)
}
