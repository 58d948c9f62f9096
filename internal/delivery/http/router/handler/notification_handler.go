package handler

import (
	"log/slog"
	"net/http"

	"citapush/config"
	"citapush/internal/delivery/http/response"
	"citapush/internal/domain/entity"
	"citapush/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	Config         *config.Config
	NotificationUC usecase.NotificationUsecase
	Logger         *slog.Logger
}

// NotificationHandler holds dependencies for outbound push handlers
type NotificationHandler struct {
	cfg            *config.Config
	notificationUC usecase.NotificationUsecase
	logger         *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{
		cfg:            params.Config,
		notificationUC: params.NotificationUC,
		logger:         params.Logger,
	}
}

// NotifyRequest carries the target subscriber and the push content.
type NotifyRequest struct {
	SubscriberID string        `json:"subscriber_id" validate:"required"`
	Title        string        `json:"title,omitempty"`
	Body         string        `json:"body,omitempty"`
	URL          string        `json:"url,omitempty"`
	CitaID       entity.CitaID `json:"citaId,omitempty"`
}

// Notify fans a push out to every subscription of the subscriber
func (h *NotificationHandler) Notify(c echo.Context) error {
	var req NotifyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Cuerpo de notificación inválido")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	payload := &entity.PushPayload{
		Title:  req.Title,
		Body:   req.Body,
		URL:    req.URL,
		CitaID: req.CitaID,
	}

	result, err := h.notificationUC.Notify(c.Request().Context(), req.SubscriberID, payload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// VAPIDKey exposes the public half of the VAPID pair so clients can
// bind their subscriptions to this application server.
func (h *NotificationHandler) VAPIDKey(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{
		"publicKey": h.cfg.Push.PublicKey,
	})
}
