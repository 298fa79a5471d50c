package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/stats", h.stats)
	api.GET("/recent-activity", h.recentActivity)
	api.GET("/ai-insights", h.insights)
}

func (h *Handler) stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) recentActivity(c echo.Context) error {
	feed, err := h.svc.RecentActivity(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"activity": feed,
		"total":    len(feed),
	})
}

func (h *Handler) insights(c echo.Context) error {
	insights, err := h.svc.Insights(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"insights":     insights,
		"generated_at": time.Now().UTC(),
	})
}
