package worker

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"citapush/config"
	"citapush/internal/delivery"
	"citapush/internal/delivery/middleware"
	"citapush/internal/delivery/worker/handler"
	"citapush/internal/domain/lifecycle"
	"citapush/internal/worker"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type workerServer struct {
	cfg          *config.Config
	logger       *slog.Logger
	registration *worker.Registration
	server       *echo.Echo
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	Registration *worker.Registration
	PushHandler  *handler.PushHandler
}

// NewServer creates the worker event server
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true

	// Recover first, then request IDs so the logger can include them
	e.Use(echomiddleware.Recover())

	requestIDMiddleware := middleware.NewRequestIDMiddleware(params.Logger)
	e.Use(requestIDMiddleware.Process)

	loggerMiddleware := middleware.NewLoggerMiddleware(params.Logger, params.Cfg)
	e.Use(loggerMiddleware.Handle)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status": "ok",
			"state":  string(params.Registration.State()),
		})
	})

	// Worker event endpoints. Minted subscription endpoints carry an id
	// suffix, broadcast deliveries go to the bare path.
	e.POST("/push", params.PushHandler.HandlePush)
	e.POST("/push/:id", params.PushHandler.HandlePush)
	e.POST("/notifications/:id/click", params.PushHandler.HandleClick)
	e.GET("/assets/*", params.PushHandler.HandleFetch)

	srv := &workerServer{
		cfg:          params.Cfg,
		logger:       params.Logger,
		registration: params.Registration,
		server:       e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

const installRetryInterval = 200 * time.Millisecond

// installWithRetry keeps attempting install until the bound expires.
// The cache origin is the sibling HTTP delivery, which may still be
// binding its listener when this delivery starts; install failure keeps
// the registration in installing so a retry is safe.
func installWithRetry(ctx context.Context, registration *worker.Registration, logger *slog.Logger, interval, bound time.Duration) error {
	deadline := time.Now().Add(bound)
	for {
		err := registration.Install(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}

		logger.Warn("Worker install failed, retrying", slog.Any("error", err))

		select {
		case <-ctx.Done():
			return err
		case <-time.After(interval):
		}
	}
}

// Serve drives the registration through install and activate, then
// starts handling events. A failed install leaves the worker down; the
// cache is all-or-nothing so a half-populated store never serves.
func (s *workerServer) Serve(ctx context.Context) error {
	if err := installWithRetry(ctx, s.registration, s.logger, installRetryInterval, lifecycle.DefaultTimeout); err != nil {
		return errors.Wrap(err, "worker install")
	}
	if err := s.registration.Activate(ctx); err != nil {
		return errors.Wrap(err, "worker activate")
	}

	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Worker.Port))
	s.logger.Info("Starting worker server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// stop shuts the server down and waits for lifetime-extended work, so
// pending notification renders are not dropped.
func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down worker server")

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.WithStack(err)
	}

	s.registration.WaitIdle()

	return nil
}
