package server

import (
	"context"
	stdhttp "net/http"

	"github.com/small-creator/naverland-ho-tele/internal/conf"
	"github.com/small-creator/naverland-ho-tele/internal/server/middleware"
	"github.com/small-creator/naverland-ho-tele/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// Operation names for middleware dispatch and request logs.
const (
	OperationWebhook = "/telegram.bot/Webhook"
	OperationHealth  = "/telegram.bot/Health"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, bot *service.BotService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			middleware.Logging(logger),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, http.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != nil {
			opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
		}
	}
	srv := http.NewServer(opts...)

	route := srv.Route("/")
	route.POST("/webhook", webhookHandler(bot))
	route.GET("/", healthHandler())

	return srv
}

// webhookHandler runs each update through the middleware chain (recovery,
// request logging) and always answers 200: a non-200 makes Telegram redeliver
// the update, and user-level failures are reported through chat messages.
func webhookHandler(bot *service.BotService) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationWebhook)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			bot.ProcessUpdate(c, ctx.Request().Body)
			return nil, nil
		})
		_, _ = h(ctx, nil)
		return ctx.Result(stdhttp.StatusOK, map[string]string{"ok": "true"})
	}
}

func healthHandler() http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationHealth)
		h := ctx.Middleware(func(context.Context, interface{}) (interface{}, error) {
			return map[string]string{"status": "bot server is running"}, nil
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, out)
	}
}
