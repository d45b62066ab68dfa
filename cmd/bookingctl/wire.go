//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"bookingdesk/internal/apiclient"
	"bookingdesk/internal/app"
	"bookingdesk/internal/config"
	"bookingdesk/internal/inbox"
	"bookingdesk/internal/logging"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/session"
	"bookingdesk/internal/transport"
	ssetransport "bookingdesk/internal/transport/sse"
)

func InitializeClient() (*app.Client, error) {
	wire.Build(
		config.New,
		logging.NewFileOnly,
		metrics.New,
		session.NewStore,
		wire.Bind(new(apiclient.TokenSource), new(*session.Store)),
		wire.Bind(new(ssetransport.TokenSource), new(*session.Store)),
		app.ProvideTokenStore,
		app.ProvideNotifier,
		apiclient.New,
		wire.Bind(new(inbox.API), new(*apiclient.Client)),
		ssetransport.New,
		wire.Bind(new(transport.Transport), new(*ssetransport.Adapter)),
		wire.Bind(new(app.AccountAPI), new(*apiclient.Client)),
		inbox.New,
		app.ProvideBookingsPager,
		app.NewClient,
	)
	return &app.Client{}, nil
}
