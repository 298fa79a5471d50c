package coding

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcmstack/rcm/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	writes := api.Group("", auth.RequireRole(auth.RoleHealthcareProvider))
	writes.POST("/ai-suggest", h.suggest)
	writes.POST("/save-session", h.saveSession)

	api.GET("/search-codes", h.searchCodes)
	api.POST("/validate-codes", h.validateCodes)
	api.GET("/sessions", h.sessions)
	api.GET("/sessions/:id", h.session)
	api.GET("/analytics", h.analytics)
}

func (h *Handler) searchCodes(c echo.Context) error {
	result, err := h.svc.SearchCodes(c.QueryParam("query"), c.QueryParam("code_type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) suggest(c echo.Context) error {
	var req SuggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	suggestions, err := h.svc.Suggest(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) validateCodes(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.Validate(req))
}

func (h *Handler) saveSession(c echo.Context) error {
	var req SaveSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.svc.SaveSession(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Coding session saved",
		"session_id": session.ID,
		"confidence": session.Confidence,
	})
}

func (h *Handler) sessions(c echo.Context) error {
	sessions, err := h.svc.Sessions(c.Request().Context(), c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

func (h *Handler) session(c echo.Context) error {
	session, err := h.svc.Session(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) analytics(c echo.Context) error {
	a, err := h.svc.Analytics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
