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

const defaultTelegramAPIBase = "https://api.telegram.org"

// TelegramMessenger implements biz.Messenger against the Telegram Bot API.
type TelegramMessenger struct {
	httpClient *http.Client
	apiBase    string
	token      string
	logger     *log.Helper
}

// NewTelegramMessenger creates the outbound messenger from configuration.
func NewTelegramMessenger(c *conf.Telegram, logger log.Logger) *TelegramMessenger {
	m := &TelegramMessenger{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    defaultTelegramAPIBase,
		logger:     log.NewHelper(logger),
	}
	if c != nil {
		m.token = c.Token
		if c.ApiBase != "" {
			m.apiBase = c.ApiBase
		}
	}
	return m
}

// SendMessage posts one text message to the chat.
func (m *TelegramMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sendMessage payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", m.apiBase, m.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		m.logger.Errorw("msg", "telegram sendMessage rejected",
			"chat_id", chatID,
			"status", resp.StatusCode,
			"body", string(body))
		return fmt.Errorf("telegram sendMessage returned HTTP %d", resp.StatusCode)
	}

	return nil
}
