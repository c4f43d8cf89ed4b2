package data

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	m := NewTelegramMessenger(&conf.Telegram{Token: "test-token", ApiBase: server.URL}, log.NewStdLogger(os.Stdout))

	err := m.SendMessage(context.Background(), 777, "안녕하세요")
	require.NoError(t, err)
	assert.Equal(t, float64(777), got["chat_id"])
	assert.Equal(t, "안녕하세요", got["text"])
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	t.Cleanup(server.Close)

	m := NewTelegramMessenger(&conf.Telegram{Token: "test-token", ApiBase: server.URL}, log.NewStdLogger(os.Stdout))

	err := m.SendMessage(context.Background(), 777, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSendMessage_Unreachable(t *testing.T) {
	m := NewTelegramMessenger(&conf.Telegram{Token: "test-token", ApiBase: "http://127.0.0.1:1"}, log.NewStdLogger(os.Stdout))

	err := m.SendMessage(context.Background(), 777, "hello")
	assert.Error(t, err)
}
