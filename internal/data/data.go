// Package data implements the biz layer contracts against the external
// systems: the Redis usage ledger, the Naver Land endpoints, the Telegram Bot
// API, GitHub repository_dispatch, and the optional MySQL history store.
package data

import (
	"github.com/small-creator/naverland-ho-tele/internal/biz"

	"github.com/google/wire"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewRedisClient,
	NewMySQLClient,
	NewQuotaRepo,
	NewNaverClient,
	NewTelegramMessenger,
	NewGithubDispatcher,
	NewHistoryRepo,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(biz.QuotaRepo), new(*QuotaRepo)),
	wire.Bind(new(biz.ListingSource), new(*NaverClient)),
	wire.Bind(new(biz.Messenger), new(*TelegramMessenger)),
	wire.Bind(new(biz.JobDispatcher), new(*GithubDispatcher)),
	wire.Bind(new(biz.HistoryRecorder), new(*HistoryRepo)),
)
