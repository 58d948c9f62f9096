// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"citapush/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SubscriptionHandler *handler.SubscriptionHandler
	NotificationHandler *handler.NotificationHandler
	AssetHandler        *handler.AssetHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	subscriptionHandler *handler.SubscriptionHandler
	notificationHandler *handler.NotificationHandler
	assetHandler        *handler.AssetHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		subscriptionHandler: params.SubscriptionHandler,
		notificationHandler: params.NotificationHandler,
		assetHandler:        params.AssetHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Push API
	pushGroup := e.Group("/api/push")
	{
		pushGroup.GET("/key", r.notificationHandler.VAPIDKey)
		pushGroup.POST("/subscribe", r.subscriptionHandler.Subscribe)
		pushGroup.POST("/unsubscribe", r.subscriptionHandler.Unsubscribe)
		pushGroup.GET("/subscriptions/:subscriberId", r.subscriptionHandler.ListBySubscriber)
		pushGroup.POST("/notify", r.notificationHandler.Notify)
	}

	// Static asset origin. Every cache manifest path must resolve here,
	// "/" included, or worker install can never complete.
	e.GET("/", r.assetHandler.Index)
	e.GET("/service-worker.js", r.assetHandler.WorkerScript)
	e.GET("/manifest.json", r.assetHandler.Manifest)
	e.GET("/static/*", r.assetHandler.Static)
}
