// Package ai はGemini APIを使った履歴書分析とチャット応答の生成を提供する。
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// TextGenerator はテキスト生成モデルの呼び出しを抽象化する。
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiClient はGemini APIのTextGenerator実装。
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient はGeminiClientを生成する。
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// GenerateText はプロンプトを単発でモデルに送り、応答テキストを返す。
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}

// compile-time interface check
var _ TextGenerator = (*GeminiClient)(nil)
