package log

import (
	"testing"

	klog "github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedAdapter() (klog.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewKratosAdapter(zap.New(core)), logs
}

func TestKratosAdapter_LevelsAndFields(t *testing.T) {
	logger, logs := newObservedAdapter()

	err := logger.Log(klog.LevelInfo, "msg", "extraction requested", "article_no", "8101290")
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	// The leading "msg" pair becomes the entry message, not a field.
	assert.Equal(t, "extraction requested", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.NotContains(t, fields, "msg")
	assert.Equal(t, "8101290", fields["article_no"])
}

func TestKratosAdapter_NoMessagePair(t *testing.T) {
	logger, logs := newObservedAdapter()

	require.NoError(t, logger.Log(klog.LevelInfo, "article_no", "8101290"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Message)
	assert.Equal(t, "8101290", entries[0].ContextMap()["article_no"])
}

func TestKratosAdapter_MasksCredentials(t *testing.T) {
	logger, logs := newObservedAdapter()

	token := "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"
	require.NoError(t, logger.Log(klog.LevelWarn, "telegram_token", token))

	entries := logs.All()
	require.Len(t, entries, 1)
	got := entries[0].ContextMap()["telegram_token"].(string)
	assert.NotEqual(t, token, got)
	assert.Contains(t, got, "****")
}

func TestKratosAdapter_EmptyKeyvals(t *testing.T) {
	logger, logs := newObservedAdapter()

	require.NoError(t, logger.Log(klog.LevelInfo))
	assert.Zero(t, logs.Len())
}
