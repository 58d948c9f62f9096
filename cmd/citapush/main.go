package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"citapush/config"
	"citapush/internal/assetcache"
	"citapush/internal/delivery"
	"citapush/internal/delivery/http"
	"citapush/internal/delivery/http/router/handler"
	workerdelivery "citapush/internal/delivery/worker"
	workerhandler "citapush/internal/delivery/worker/handler"
	"citapush/internal/domain/service"
	logs "citapush/internal/infra/log"
	"citapush/internal/infra/notify"
	"citapush/internal/infra/persistence/memory"
	"citapush/internal/infra/pushservice"
	"citapush/internal/infra/webpush"
	"citapush/internal/usecase/impl"
	"citapush/internal/worker"

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
		injectService(),
		injectWorker(),
		injectUsecase(),
		injectDelivery(),
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
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			memory.NewSubscriptionRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			webpush.NewSender,
			newAssetFetcher,
			newPushService,
			newNotifier,
			newClientRegistry,
		),
	)
}

// newAssetFetcher fetches worker-cached assets from this process's own
// HTTP delivery, so the cache manifest resolves against the real origin.
func newAssetFetcher(cfg *config.Config) (assetcache.Fetcher, error) {
	origin := "http://" + net.JoinHostPort("localhost", strconv.Itoa(cfg.HTTP.Port))

	fetcher, err := assetcache.NewHTTPFetcher(origin, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset fetcher: %w", err)
	}

	return fetcher, nil
}

// newPushService mints subscriptions whose endpoints point back at this
// process's worker delivery.
func newPushService(cfg *config.Config, logger *slog.Logger) service.PushService {
	endpointBase := "http://" + net.JoinHostPort("localhost", strconv.Itoa(cfg.Worker.Port)) + "/push"

	return pushservice.NewLocal(endpointBase, logger)
}

func newNotifier(logger *slog.Logger) service.Notifier {
	return notify.NewLogNotifier(logger)
}

func newClientRegistry(logger *slog.Logger) service.ClientRegistry {
	return notify.NewClientRegistry(logger)
}

func injectWorker() fx.Option {
	return fx.Options(
		fx.Provide(
			assetcache.NewRegistry,
			newAssetCache,
			worker.New,
		),
	)
}

func newAssetCache(
	registry *assetcache.Registry,
	cfg *config.Config,
	fetcher assetcache.Fetcher,
	logger *slog.Logger,
) *assetcache.Cache {
	return registry.Open(cfg.Cache.Name, cfg.Cache.Manifest, fetcher, logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSubscriptionService,
			impl.NewNotificationService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSubscriptionHandler,
			handler.NewNotificationHandler,
			handler.NewAssetHandler,
			workerhandler.NewPushHandler,
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
			fx.Annotate(
				workerdelivery.NewServer,
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
