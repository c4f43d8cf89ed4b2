package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultGithubAPIBase     = "https://api.github.com"
	defaultDispatchEventType = "extract_from_bot"
)

// GithubDispatcher implements biz.JobDispatcher by firing a
// repository_dispatch event, handing the extraction to a workflow runner
// outside this process.
type GithubDispatcher struct {
	httpClient *http.Client
	apiBase    string
	repo       string
	token      string
	eventType  string
	logger     *log.Helper
}

// NewGithubDispatcher creates the workflow dispatcher from configuration.
func NewGithubDispatcher(c *conf.Dispatch, logger log.Logger) *GithubDispatcher {
	d := &GithubDispatcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    defaultGithubAPIBase,
		eventType:  defaultDispatchEventType,
		logger:     log.NewHelper(logger),
	}
	if c != nil {
		d.repo = c.Repo
		d.token = c.Token
		if c.EventType != "" {
			d.eventType = c.EventType
		}
	}
	return d
}

// Dispatch posts a repository_dispatch event carrying the chat id and article
// number as the workflow payload. GitHub answers 204 on success.
func (d *GithubDispatcher) Dispatch(ctx context.Context, chatID int64, articleNo string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"event_type": d.eventType,
		"client_payload": map[string]interface{}{
			"chat_id":    chatID,
			"article_no": articleNo,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode dispatch payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/dispatches", d.apiBase, d.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "token "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Errorw("msg", "repository_dispatch rejected",
			"repo", d.repo,
			"status", resp.StatusCode,
			"body", string(body))
		return fmt.Errorf("repository_dispatch returned HTTP %d", resp.StatusCode)
	}

	d.logger.Infow("msg", "extraction dispatched to workflow",
		"repo", d.repo,
		"chat_id", chatID,
		"article_no", articleNo)
	return nil
}
