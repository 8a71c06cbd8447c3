package main

import (
	"context"
	"log/slog"
	"os"

	"fitsync/config"
	"fitsync/internal/delivery"
	"fitsync/internal/delivery/http"
	"fitsync/internal/delivery/http/middleware"
	"fitsync/internal/delivery/http/router/handler"
	"fitsync/internal/infra/artifact"
	"fitsync/internal/infra/fitbit"
	logs "fitsync/internal/infra/log"
	"fitsync/internal/infra/persistence/postgres"
	"fitsync/internal/infra/session"
	"fitsync/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		fitbit.NewClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewParticipantRepository,
			postgres.NewCredentialRepository,
			session.NewHandshakeStore,
			artifact.NewStore,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewParticipantService,
			impl.NewOAuthService,
			impl.NewSyncService,
			impl.NewExportService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionMiddleware,
			middleware.NewRequestIDMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewParticipantHandler,
			handler.NewOAuthHandler,
			handler.NewSyncHandler,
			handler.NewExportHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
