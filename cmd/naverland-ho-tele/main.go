// Package main is the entry point of the naverland-ho-tele bot service.
// It serves the Telegram webhook and runs listing extraction jobs.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/small-creator/naverland-ho-tele/internal/conf"
	zapLogger "github.com/small-creator/naverland-ho-tele/pkg/log"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "naverland-ho-tele"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server, summaryCron *cron.Cron) *kratos.App {
	opts := []kratos.Option{
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
		),
	}
	if summaryCron != nil {
		opts = append(opts, kratos.AfterStop(func(_ context.Context) error {
			summaryCron.Stop()
			return nil
		}))
	}
	return kratos.New(opts...)
}

func main() {
	flag.Parse()

	// Local development convenience; deployments set real env vars.
	_ = godotenv.Load()

	bc, err := conf.NewBootstrap(flagconf)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLog, err := zapLogger.NewZapLogger(bc.Log)
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer zapLog.Sync()

	logger := zapLogger.NewKratosAdapter(zapLog)
	logger = log.With(logger,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)

	log.NewHelper(logger).Infow(
		"msg", "bot service starting",
		"dispatch.mode", bc.Dispatch.Mode,
		"quota.daily_limit", bc.Quota.DailyLimit,
		"quota.total_limit", bc.Quota.TotalLimit,
	)

	app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Telegram, bc.Naver, bc.Dispatch, bc.Quota, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
