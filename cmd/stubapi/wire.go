//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"bookingdesk/internal/app"
	"bookingdesk/internal/config"
	"bookingdesk/internal/http"
	"bookingdesk/internal/http/controller"
	"bookingdesk/internal/logging"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/repository"
	"bookingdesk/internal/service/account"
	"bookingdesk/internal/service/booking"
	"bookingdesk/internal/service/notify"
	"bookingdesk/internal/sse"
	"bookingdesk/internal/store/memory"
)

func InitializeServer() (*app.Server, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.NewServer,
		memory.New,
		wire.Bind(new(repository.NotificationRepository), new(*memory.Store)),
		wire.Bind(new(repository.BookingRepository), new(*memory.Store)),
		wire.Bind(new(repository.AccountRepository), new(*memory.Store)),
		sse.NewHub,
		notify.NewService,
		booking.NewService,
		account.NewService,
		controller.NewHandler,
		http.NewRouter,
		app.NewServer,
	)
	return &app.Server{}, nil
}
