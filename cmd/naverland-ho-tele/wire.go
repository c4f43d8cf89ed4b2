//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/small-creator/naverland-ho-tele/internal/biz"
	"github.com/small-creator/naverland-ho-tele/internal/conf"
	"github.com/small-creator/naverland-ho-tele/internal/data"
	"github.com/small-creator/naverland-ho-tele/internal/server"
	"github.com/small-creator/naverland-ho-tele/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Telegram, *conf.Naver, *conf.Dispatch, *conf.Quota, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		server.ProviderSet,
		StartUsageSummaryCron,
		newApp,
	))
}
