package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"citapush/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AssetHandlerParams holds dependencies for AssetHandler, injected by Fx.
type AssetHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// AssetHandler serves the static asset origin, including the worker
// script with the header that widens its registrable scope to the
// site root.
type AssetHandler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewAssetHandler is the constructor for AssetHandler
func NewAssetHandler(params AssetHandlerParams) *AssetHandler {
	return &AssetHandler{
		cfg:    params.Config,
		logger: params.Logger,
	}
}

// Index serves the root document. The cache manifest pins "/" so the
// origin must answer it for worker install to complete.
func (h *AssetHandler) Index(c echo.Context) error {
	return c.File(filepath.Join(h.cfg.Assets.Dir, "index.html"))
}

// WorkerScript serves the worker script. Served from the assets dir
// root so its default scope covers the whole origin.
func (h *AssetHandler) WorkerScript(c echo.Context) error {
	c.Response().Header().Set("Service-Worker-Allowed", "/")
	c.Response().Header().Set(echo.HeaderContentType, "application/javascript")

	script := filepath.Join(h.cfg.Assets.Dir, strings.TrimPrefix(h.cfg.Worker.ScriptPath, "/"))

	return c.File(script)
}

// Manifest serves the application manifest.
func (h *AssetHandler) Manifest(c echo.Context) error {
	return c.File(filepath.Join(h.cfg.Assets.Dir, "manifest.json"))
}

// Static serves any other asset under the assets dir.
func (h *AssetHandler) Static(c echo.Context) error {
	name := c.Param("*")
	if strings.Contains(name, "..") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid path")
	}

	return c.File(filepath.Join(h.cfg.Assets.Dir, "static", name))
}
