//go:build wireinject
// +build wireinject

package main

import (
	"intake/config"
	"intake/internal/command"
	"intake/internal/cron"
	"intake/internal/database"
	"intake/internal/handler"
	"intake/internal/middleware"
	"intake/internal/router"
	"intake/internal/service"
	"intake/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init application.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(wire.Build(command.ProviderSet))
}
