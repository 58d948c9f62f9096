package handler

import (
	"io"
	"log/slog"
	"net/http"

	"citapush/internal/delivery/http/response"
	"citapush/internal/worker"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PushHandler exposes the worker registration's event pipeline over
// HTTP: push delivery, notification interaction and cache-first asset
// fetch.
type PushHandler struct {
	registration *worker.Registration
	logger       *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Registration *worker.Registration
	Logger       *slog.Logger
}

// NewPushHandler creates the worker event handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	return &PushHandler{
		registration: params.Registration,
		logger:       params.Logger,
	}
}

// HandlePush accepts one inbound push message. The raw body is the push
// payload; an empty or malformed body still renders a notification with
// default content, so this never rejects on content.
func (h *PushHandler) HandlePush(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "No se pudo leer el mensaje push")
	}

	intent, err := h.registration.HandlePush(c.Request().Context(), body)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, intent)
}

// ClickRequest names the control activated on a shown notification. An
// empty action is a plain click on the notification body.
type ClickRequest struct {
	Action string `json:"action"`
}

// HandleClick routes one notification interaction
func (h *PushHandler) HandleClick(c echo.Context) error {
	notificationID := c.Param("id")

	var req ClickRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Cuerpo de interacción inválido")
	}

	if err := h.registration.HandleNotificationClick(c.Request().Context(), notificationID, req.Action); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil)
}

// HandleFetch answers an asset request cache-first. The response header
// reports whether the body came from the cache or the live origin.
func (h *PushHandler) HandleFetch(c echo.Context) error {
	path := "/" + c.Param("*")

	entry, cached, err := h.registration.HandleFetch(c.Request().Context(), path)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	source := "network"
	if cached {
		source = "cache"
	}
	c.Response().Header().Set("X-Asset-Source", source)

	return c.Blob(http.StatusOK, entry.ContentType, entry.Body)
}
