package handler

import (
	"log/slog"
	"net/http"

	"citapush/internal/delivery/http/response"
	"citapush/internal/domain/entity"
	"citapush/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SubscriptionHandlerParams holds dependencies for SubscriptionHandler, injected by Fx.
type SubscriptionHandlerParams struct {
	fx.In

	SubscriptionUC usecase.SubscriptionUsecase
	Logger         *slog.Logger
}

// SubscriptionHandler holds dependencies for subscription-related handlers
type SubscriptionHandler struct {
	subscriptionUC usecase.SubscriptionUsecase
	logger         *slog.Logger
}

// NewSubscriptionHandler is the constructor for SubscriptionHandler
func NewSubscriptionHandler(params SubscriptionHandlerParams) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUC: params.SubscriptionUC,
		logger:         params.Logger,
	}
}

// SubscribeRequest is the submitted subscription record: the platform
// subscription plus the subscriber it belongs to.
type SubscribeRequest struct {
	Subscription entity.PushSubscription `json:"subscription" validate:"required"`
	SubscriberID string                  `json:"subscriber_id" validate:"required"`
}

// Subscribe stores a push subscription for a subscriber
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Cuerpo de suscripción inválido")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	record := &entity.SubscriptionRecord{
		Subscription: req.Subscription,
		SubscriberID: req.SubscriberID,
	}
	if err := h.subscriptionUC.Store(c.Request().Context(), record); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, nil)
}

// ListBySubscriber returns all stored subscriptions for one subscriber
func (h *SubscriptionHandler) ListBySubscriber(c echo.Context) error {
	subscriberID := c.Param("subscriberId")
	if subscriberID == "" {
		return response.BadRequest(c, "INVALID_ID", "Falta el identificador del suscriptor")
	}

	records, err := h.subscriptionUC.ListBySubscriber(c.Request().Context(), subscriberID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, records)
}

// UnsubscribeRequest identifies the subscription to drop by endpoint.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// Unsubscribe removes a stored subscription
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	var req UnsubscribeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Cuerpo de baja inválido")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.subscriptionUC.Remove(c.Request().Context(), req.Endpoint); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil)
}
