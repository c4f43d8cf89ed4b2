package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuotaRepo scripts the counter store for use case tests.
type fakeQuotaRepo struct {
	outcome     *ConsumeOutcome
	consumeErr  error
	daily       int64
	total       int64
	countsErr   error
	odaily      int64
	ototal      int64
	overrideErr error

	gotDailyLimit int64
	gotTotalLimit int64
}

func (f *fakeQuotaRepo) ConsumeIfAllowed(_ context.Context, _, dailyLimit, totalLimit int64) (*ConsumeOutcome, error) {
	f.gotDailyLimit = dailyLimit
	f.gotTotalLimit = totalLimit
	return f.outcome, f.consumeErr
}

func (f *fakeQuotaRepo) GetCounts(_ context.Context, _ int64) (int64, int64, error) {
	return f.daily, f.total, f.countsErr
}

func (f *fakeQuotaRepo) GetLimitOverrides(_ context.Context, _ int64) (int64, int64, error) {
	return f.odaily, f.ototal, f.overrideErr
}

func TestCheckAndConsume_Allowed(t *testing.T) {
	repo := &fakeQuotaRepo{outcome: &ConsumeOutcome{State: ConsumeAllowed, DailyCount: 3, TotalCount: 40}}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	decision, usage := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, DecisionAllowed, decision)
	require.NotNil(t, usage)
	assert.Equal(t, int64(3), usage.DailyCount)
	assert.Equal(t, int64(40), usage.TotalCount)
	assert.Equal(t, int64(5), usage.DailyLimit)
	assert.Equal(t, int64(100), usage.TotalLimit)
}

func TestCheckAndConsume_DailyExceeded(t *testing.T) {
	repo := &fakeQuotaRepo{outcome: &ConsumeOutcome{State: ConsumeDailyExceeded, DailyCount: 5, TotalCount: 20}}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	decision, usage := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, DecisionDailyLimitExceeded, decision)
	assert.Equal(t, int64(5), usage.DailyCount)
}

func TestCheckAndConsume_TotalExceeded(t *testing.T) {
	repo := &fakeQuotaRepo{outcome: &ConsumeOutcome{State: ConsumeTotalExceeded, DailyCount: 1, TotalCount: 100}}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	decision, _ := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, DecisionTotalLimitExceeded, decision)
}

func TestCheckAndConsume_LedgerDownFailClosed(t *testing.T) {
	repo := &fakeQuotaRepo{consumeErr: errors.New("dial tcp: connection refused")}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100, FailOpen: false}, repo, log.DefaultLogger)

	decision, usage := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, DecisionLedgerUnavailable, decision)
	assert.Nil(t, usage)
}

func TestCheckAndConsume_LedgerDownFailOpen(t *testing.T) {
	repo := &fakeQuotaRepo{consumeErr: errors.New("dial tcp: connection refused")}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100, FailOpen: true}, repo, log.DefaultLogger)

	decision, usage := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, DecisionAllowed, decision)
	assert.Nil(t, usage)
}

func TestCheckAndConsume_OverridesApplied(t *testing.T) {
	repo := &fakeQuotaRepo{
		outcome: &ConsumeOutcome{State: ConsumeAllowed, DailyCount: 1, TotalCount: 1},
		odaily:  50,
		ototal:  1000,
	}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	_, usage := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, int64(50), repo.gotDailyLimit)
	assert.Equal(t, int64(1000), repo.gotTotalLimit)
	assert.Equal(t, int64(50), usage.DailyLimit)
	assert.Equal(t, int64(1000), usage.TotalLimit)
}

func TestCheckAndConsume_OverrideReadFailureFallsBack(t *testing.T) {
	repo := &fakeQuotaRepo{
		outcome:     &ConsumeOutcome{State: ConsumeAllowed, DailyCount: 1, TotalCount: 1},
		overrideErr: errors.New("timeout"),
	}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	decision, _ := uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, DecisionAllowed, decision)
	assert.Equal(t, int64(5), repo.gotDailyLimit)
	assert.Equal(t, int64(100), repo.gotTotalLimit)
}

func TestGetUsage(t *testing.T) {
	repo := &fakeQuotaRepo{daily: 2, total: 17}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	usage, err := uc.GetUsage(context.Background(), 777)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage.DailyCount)
	assert.Equal(t, int64(17), usage.TotalCount)

	// Idempotent: a second read with no consume in between is identical.
	again, err := uc.GetUsage(context.Background(), 777)
	require.NoError(t, err)
	assert.Equal(t, usage, again)
}

func TestGetUsage_LedgerDown(t *testing.T) {
	repo := &fakeQuotaRepo{countsErr: errors.New("connection refused")}
	uc := NewQuotaUsecase(&conf.Quota{DailyLimit: 5, TotalLimit: 100}, repo, log.DefaultLogger)

	_, err := uc.GetUsage(context.Background(), 777)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
}

func TestNewQuotaUsecase_DefaultLimits(t *testing.T) {
	repo := &fakeQuotaRepo{outcome: &ConsumeOutcome{State: ConsumeAllowed}}
	uc := NewQuotaUsecase(nil, repo, log.DefaultLogger)

	uc.CheckAndConsume(context.Background(), 777)

	assert.Equal(t, int64(5), repo.gotDailyLimit)
	assert.Equal(t, int64(100), repo.gotTotalLimit)
}
