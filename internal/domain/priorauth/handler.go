package priorauth

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
	writes := api.Group("", auth.RequireRole(auth.RoleHealthcareProvider, auth.RoleInsuranceCoordinator))
	writes.POST("/submit", h.submit)
	writes.POST("/upload/:auth_number", h.upload)
	writes.PUT("/update-status/:auth_number", h.updateStatus)

	api.GET("/status/:auth_number", h.status)
	api.GET("/list", h.list)
}

func (h *Handler) submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pa, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":              "Prior authorization request submitted",
		"authorization_number": pa.AuthNumber,
		"status":               pa.Status,
		"ai_analysis": map[string]interface{}{
			"approval_likelihood": pa.ApprovalLikelihood,
			"risk_factors":        pa.RiskFactors,
			"recommendations":     pa.Recommendations,
		},
		"estimated_decision_time": "2-3 business days",
	})
}

func (h *Handler) upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	pa, notes, err := h.svc.AttachDocument(c.Request().Context(), c.Param("auth_number"), file.Filename)
	if err != nil {
		return serviceError(err)
	}

	analysis := map[string]interface{}{
		"approval_likelihood": pa.ApprovalLikelihood,
	}
	if len(notes) > 0 {
		analysis["notes"] = notes
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":              "Document uploaded successfully",
		"filename":             pa.Documents[len(pa.Documents)-1],
		"total_documents":      len(pa.Documents),
		"authorization_number": pa.AuthNumber,
		"updated_analysis":     analysis,
	})
}

func (h *Handler) status(c echo.Context) error {
	pa, err := h.svc.Status(c.Request().Context(), c.Param("auth_number"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, pa)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	auths, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"authorizations": auths,
		"total_count":    total,
		"limit":          p.Limit,
		"offset":         p.Offset,
	})
}

func (h *Handler) updateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pa, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("auth_number"), req.Status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":              "Status updated successfully",
		"authorization_number": pa.AuthNumber,
		"status":               pa.Status,
		"decision_date":        pa.DecisionDate,
	})
}

func serviceError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidFileType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
