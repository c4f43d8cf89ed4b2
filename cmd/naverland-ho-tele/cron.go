package main

import (
	"context"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// StartUsageSummaryCron logs how many chats used the bot today, shortly after
// the daily counters roll over at midnight KST.
func StartUsageSummaryCron(repo *data.QuotaRepo, logger log.Logger) *cron.Cron {
	helper := log.NewHelper(logger)

	kst := time.FixedZone("KST", 9*60*60)
	c := cron.New(cron.WithSeconds(), cron.WithLocation(kst))

	// 00:05 KST daily
	_, err := c.AddFunc("0 5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		count, err := repo.CountActiveChats(ctx)
		if err != nil {
			helper.Errorw("msg", "usage summary failed", "error", err)
			return
		}
		helper.Infow("msg", "daily usage summary", "active_chats", count)
	})
	if err != nil {
		helper.Errorw("msg", "failed to register usage summary cron job", "error", err)
		return nil
	}

	c.Start()
	helper.Info("usage summary cron job started: runs daily at 00:05 KST")

	return c
}
