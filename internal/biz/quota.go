package biz

import (
	"context"
	"fmt"

	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// Decision is the outcome of a quota check for one inbound command.
type Decision int

const (
	// DecisionAllowed means the request was admitted and both counters consumed.
	DecisionAllowed Decision = iota
	// DecisionDailyLimitExceeded means today's ceiling is reached; nothing was consumed.
	DecisionDailyLimitExceeded
	// DecisionTotalLimitExceeded means the lifetime ceiling is reached; nothing was consumed.
	DecisionTotalLimitExceeded
	// DecisionLedgerUnavailable means the counter store could not be reached.
	DecisionLedgerUnavailable
)

// String implements fmt.Stringer for log output.
func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionDailyLimitExceeded:
		return "daily_limit_exceeded"
	case DecisionTotalLimitExceeded:
		return "total_limit_exceeded"
	case DecisionLedgerUnavailable:
		return "ledger_unavailable"
	default:
		return "unknown"
	}
}

// ConsumeState reports what the atomic ledger script decided.
type ConsumeState int

const (
	// ConsumeAllowed means both counters were incremented.
	ConsumeAllowed ConsumeState = iota
	// ConsumeDailyExceeded means the daily counter was at its limit.
	ConsumeDailyExceeded
	// ConsumeTotalExceeded means the total counter was at its limit.
	ConsumeTotalExceeded
)

// ConsumeOutcome carries the script decision and the post-check counters.
type ConsumeOutcome struct {
	State      ConsumeState
	DailyCount int64
	TotalCount int64
}

// Usage is a read-only snapshot of a chat's counters and effective limits.
type Usage struct {
	DailyCount int64
	TotalCount int64
	DailyLimit int64
	TotalLimit int64
}

// QuotaRepo is the counter-store contract. Following the Kratos DDD layering,
// the interface lives in biz and is implemented in data.
//
// ConsumeIfAllowed must be atomic: the limit comparison and the increments
// happen in one store-side operation, so concurrent requests from the same
// chat cannot overshoot the limits.
type QuotaRepo interface {
	ConsumeIfAllowed(ctx context.Context, chatID, dailyLimit, totalLimit int64) (*ConsumeOutcome, error)
	GetCounts(ctx context.Context, chatID int64) (daily, total int64, err error)
	GetLimitOverrides(ctx context.Context, chatID int64) (daily, total int64, err error)
}

// ErrLedgerUnavailable is returned by read paths when the counter store is
// unreachable.
var ErrLedgerUnavailable = errors.New(503, "LEDGER_UNAVAILABLE", "usage ledger is unreachable")

// QuotaUsecase enforces the per-chat daily and lifetime usage quotas.
type QuotaUsecase struct {
	repo       QuotaRepo
	dailyLimit int64
	totalLimit int64
	failOpen   bool
	logger     *log.Helper
}

// NewQuotaUsecase creates the quota ledger use case from configuration.
func NewQuotaUsecase(c *conf.Quota, repo QuotaRepo, logger log.Logger) *QuotaUsecase {
	uc := &QuotaUsecase{
		repo:       repo,
		dailyLimit: 5,
		totalLimit: 100,
		logger:     log.NewHelper(logger),
	}
	if c != nil {
		if c.DailyLimit > 0 {
			uc.dailyLimit = c.DailyLimit
		}
		if c.TotalLimit > 0 {
			uc.totalLimit = c.TotalLimit
		}
		uc.failOpen = c.FailOpen
	}
	return uc
}

// CheckAndConsume admits or rejects one command for the chat. On admission
// both counters are consumed atomically and the daily counter's 24h expiry is
// refreshed. On a ledger outage the configured policy applies: fail-open
// admits the request without counting it, fail-closed rejects it.
//
// The returned Usage reflects the counters after the check; it is nil when the
// ledger was unreachable.
func (uc *QuotaUsecase) CheckAndConsume(ctx context.Context, chatID int64) (Decision, *Usage) {
	dailyLimit, totalLimit := uc.effectiveLimits(ctx, chatID)

	outcome, err := uc.repo.ConsumeIfAllowed(ctx, chatID, dailyLimit, totalLimit)
	if err != nil {
		if uc.failOpen {
			uc.logger.Warnw("msg", "usage ledger unreachable, admitting request (fail-open)",
				"chat_id", chatID,
				"error", err)
			return DecisionAllowed, nil
		}
		uc.logger.Errorw("msg", "usage ledger unreachable, rejecting request (fail-closed)",
			"chat_id", chatID,
			"error", err)
		return DecisionLedgerUnavailable, nil
	}

	usage := &Usage{
		DailyCount: outcome.DailyCount,
		TotalCount: outcome.TotalCount,
		DailyLimit: dailyLimit,
		TotalLimit: totalLimit,
	}

	switch outcome.State {
	case ConsumeDailyExceeded:
		uc.logger.Warnw("msg", "daily quota exceeded",
			"chat_id", chatID,
			"daily_count", outcome.DailyCount,
			"daily_limit", dailyLimit)
		return DecisionDailyLimitExceeded, usage
	case ConsumeTotalExceeded:
		uc.logger.Warnw("msg", "total quota exceeded",
			"chat_id", chatID,
			"total_count", outcome.TotalCount,
			"total_limit", totalLimit)
		return DecisionTotalLimitExceeded, usage
	default:
		return DecisionAllowed, usage
	}
}

// GetUsage returns the chat's current counters and effective limits without
// mutating anything.
func (uc *QuotaUsecase) GetUsage(ctx context.Context, chatID int64) (*Usage, error) {
	daily, total, err := uc.repo.GetCounts(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	dailyLimit, totalLimit := uc.effectiveLimits(ctx, chatID)

	return &Usage{
		DailyCount: daily,
		TotalCount: total,
		DailyLimit: dailyLimit,
		TotalLimit: totalLimit,
	}, nil
}

// effectiveLimits resolves per-chat overrides, falling back to the configured
// process-wide defaults. An unreadable override degrades to the defaults; the
// subsequent counter operation will surface a real outage.
func (uc *QuotaUsecase) effectiveLimits(ctx context.Context, chatID int64) (int64, int64) {
	dailyLimit, totalLimit := uc.dailyLimit, uc.totalLimit

	daily, total, err := uc.repo.GetLimitOverrides(ctx, chatID)
	if err != nil {
		uc.logger.Warnw("msg", "failed to read limit overrides, using defaults",
			"chat_id", chatID,
			"error", err)
		return dailyLimit, totalLimit
	}

	if daily > 0 {
		dailyLimit = daily
	}
	if total > 0 {
		totalLimit = total
	}
	return dailyLimit, totalLimit
}
