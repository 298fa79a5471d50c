package eligibility

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcmstack/rcm/internal/platform/auth"
	"github.com/rcmstack/rcm/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	checks := api.Group("", auth.RequireRole(auth.RoleHealthcareProvider, auth.RoleInsuranceCoordinator))
	checks.POST("/check", h.check)

	api.GET("/history/:patient_id", h.history)
	api.GET("/providers", h.providers)
	api.GET("/patients", h.patients)
}

func (h *Handler) check(c echo.Context) error {
	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.CheckEligibility(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"eligible": false,
				"reason":   ErrPatientNotFound.Error(),
				"recommendations": []string{
					"Verify the patient identifier",
					"Register the patient before checking eligibility",
				},
			})
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) history(c echo.Context) error {
	checks, err := h.svc.History(c.Request().Context(), c.Param("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient_id": c.Param("patient_id"),
		"checks":     checks,
		"total":      len(checks),
	})
}

func (h *Handler) providers(c echo.Context) error {
	providers, err := h.svc.Providers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"providers": providers})
}

func (h *Handler) patients(c echo.Context) error {
	p := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, p.Limit, p.Offset))
}
