// Package service wires the webhook transport to the business logic.
package service

import (
	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewBotService,
)
