package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/small-creator/naverland-ho-tele/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// secondsInDay is the expiry attached to the daily counter.
const secondsInDay = 24 * 60 * 60

// consumeScript compares both counters against their limits and, only when
// under both, increments them in the same atomic evaluation. This closes the
// check-then-act gap between concurrent requests from one chat. The 24h
// expiry on the daily key is re-armed on every increment (sliding window);
// the total key never expires.
//
// Returns {state, daily, total} with state 0=allowed, 1=daily exceeded,
// 2=total exceeded.
var consumeScript = redis.NewScript(`
local daily = tonumber(redis.call('GET', KEYS[1]) or '0')
local total = tonumber(redis.call('GET', KEYS[2]) or '0')
local daily_limit = tonumber(ARGV[1])
local total_limit = tonumber(ARGV[2])
if daily >= daily_limit then
	return {1, daily, total}
end
if total >= total_limit then
	return {2, daily, total}
end
daily = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[3])
total = redis.call('INCR', KEYS[2])
return {0, daily, total}
`)

// QuotaRepo implements biz.QuotaRepo on Redis.
// Following Kratos v2 DDD architecture, the interface is defined in the biz layer.
type QuotaRepo struct {
	rdb    *redis.Client
	logger *log.Helper
}

// NewQuotaRepo creates a new usage-ledger repository.
func NewQuotaRepo(rdb *redis.Client, logger log.Logger) *QuotaRepo {
	return &QuotaRepo{
		rdb:    rdb,
		logger: log.NewHelper(logger),
	}
}

// ConsumeIfAllowed runs the atomic check-and-increment script for the chat.
func (r *QuotaRepo) ConsumeIfAllowed(ctx context.Context, chatID, dailyLimit, totalLimit int64) (*biz.ConsumeOutcome, error) {
	if r.rdb == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	keys := []string{dailyCountKey(chatID), totalCountKey(chatID)}
	raw, err := consumeScript.Run(ctx, r.rdb, keys, dailyLimit, totalLimit, secondsInDay).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to run consume script: %w", err)
	}

	reply, ok := raw.([]interface{})
	if !ok || len(reply) != 3 {
		return nil, fmt.Errorf("unexpected consume script reply: %v", raw)
	}

	state, daily, total := toInt64(reply[0]), toInt64(reply[1]), toInt64(reply[2])

	outcome := &biz.ConsumeOutcome{DailyCount: daily, TotalCount: total}
	switch state {
	case 0:
		outcome.State = biz.ConsumeAllowed
	case 1:
		outcome.State = biz.ConsumeDailyExceeded
	case 2:
		outcome.State = biz.ConsumeTotalExceeded
	default:
		return nil, fmt.Errorf("unknown consume script state: %d", state)
	}

	return outcome, nil
}

// GetCounts reads both counters without mutating anything.
// Missing keys read as zero.
func (r *QuotaRepo) GetCounts(ctx context.Context, chatID int64) (int64, int64, error) {
	if r.rdb == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}

	vals, err := r.rdb.MGet(ctx, dailyCountKey(chatID), totalCountKey(chatID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read usage counters: %w", err)
	}

	return parseCount(vals[0]), parseCount(vals[1]), nil
}

// GetLimitOverrides reads the per-chat limit overrides. Zero means no
// override is stored for that window.
func (r *QuotaRepo) GetLimitOverrides(ctx context.Context, chatID int64) (int64, int64, error) {
	if r.rdb == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}

	vals, err := r.rdb.MGet(ctx, dailyLimitKey(chatID), totalLimitKey(chatID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read limit overrides: %w", err)
	}

	return parseCount(vals[0]), parseCount(vals[1]), nil
}

// CountActiveChats counts chats with a live daily counter, for the periodic
// usage summary.
func (r *QuotaRepo) CountActiveChats(ctx context.Context) (int64, error) {
	if r.rdb == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	var (
		cursor uint64
		count  int64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, "usage:*:daily", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan usage keys: %w", err)
		}
		for _, key := range keys {
			// The override keys usage:{id}:limit:daily share the glob's
			// shape; only plain counters mark an active chat.
			if strings.Contains(key, ":limit:") {
				continue
			}
			count++
		}
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// parseCount converts an MGET reply element to a counter value.
func parseCount(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0
	}
	return n
}

// toInt64 converts a Lua script reply element.
func toInt64(v interface{}) int64 {
	n, _ := v.(int64)
	return n
}

// Key layout: usage:{chat_id}:daily, usage:{chat_id}:total plus the
// operator-set override keys usage:{chat_id}:limit:{window}.
func dailyCountKey(chatID int64) string { return fmt.Sprintf("usage:%d:daily", chatID) }
func totalCountKey(chatID int64) string { return fmt.Sprintf("usage:%d:total", chatID) }
func dailyLimitKey(chatID int64) string { return fmt.Sprintf("usage:%d:limit:daily", chatID) }
func totalLimitKey(chatID int64) string { return fmt.Sprintf("usage:%d:limit:total", chatID) }
