package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HostedSessionChecker はホスト型IdPのセッションエンドポイントに問い合わせて
// セッションが確立済みかどうかを確認する。
type HostedSessionChecker struct {
	sessionURL string
	apiKey     string
	client     *http.Client
}

// NewHostedSessionChecker はHostedSessionCheckerを生成する。
func NewHostedSessionChecker(config HostedProviderConfig) *HostedSessionChecker {
	base := strings.TrimSuffix(config.BaseURL, "/")
	return &HostedSessionChecker{
		sessionURL: base + "/oauth/session",
		apiKey:     config.APIKey,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// sessionStatusResponse はIdPのセッションエンドポイントのレスポンス。
type sessionStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// CheckSession はIdP側にセッションが存在するかを確認する。
func (c *HostedSessionChecker) CheckSession(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sessionURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create session request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("session check failed with status %d", resp.StatusCode)
	}

	var status sessionStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("failed to parse session response: %w", err)
	}

	return status.Authenticated, nil
}

var _ SessionChecker = (*HostedSessionChecker)(nil)
