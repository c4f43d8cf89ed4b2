// Package biz contains the business logic: quota enforcement and the
// listing extraction pipeline. Interfaces defined here are implemented by the
// data layer.
package biz

import (
	"context"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewQuotaUsecase,
	NewExtractUsecase,
)

// Messenger delivers text messages back to a chat.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// JobDispatcher hands an admitted extraction request to an out-of-process
// runner.
type JobDispatcher interface {
	Dispatch(ctx context.Context, chatID int64, articleNo string) error
}
