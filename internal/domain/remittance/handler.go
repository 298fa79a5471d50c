package remittance

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
	writes := api.Group("", auth.RequireRole(auth.RoleInsuranceCoordinator))
	writes.POST("/payments/post/:payment_id", h.post)
	writes.POST("/payments/batch-post", h.batchPost)
	writes.POST("/reconciliation/auto", h.autoReconcile)
	writes.POST("/era-processing", h.eraProcessing)

	api.GET("/payments", h.payments)
	api.GET("/reconciliation/sessions", h.sessions)
	api.POST("/denial-prediction", h.denialPrediction)
	api.GET("/analytics", h.analytics)
	api.GET("/aging-report", h.agingReport)
}

func (h *Handler) payments(c echo.Context) error {
	payments, err := h.svc.Payments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	status, payer := c.QueryParam("status"), c.QueryParam("payer")
	if status != "" || payer != "" {
		filtered := payments[:0]
		for _, p := range payments {
			if status != "" && p.Status != status {
				continue
			}
			if payer != "" && p.Payer != payer {
				continue
			}
			filtered = append(filtered, p)
		}
		payments = filtered
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"payments": payments,
		"total":    len(payments),
	})
}

func (h *Handler) post(c echo.Context) error {
	p, err := h.svc.Post(c.Request().Context(), c.Param("payment_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyPosted):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Payment posted successfully",
		"payment": p,
	})
}

func (h *Handler) batchPost(c echo.Context) error {
	var req BatchPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := h.svc.BatchPost(c.Request().Context(), req.PaymentIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	posted := 0
	for _, r := range results {
		if r.Posted {
			posted++
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": results,
		"summary": map[string]int{
			"total":  len(results),
			"posted": posted,
			"failed": len(results) - posted,
		},
	})
}

func (h *Handler) autoReconcile(c echo.Context) error {
	session, err := h.svc.AutoReconcile(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) sessions(c echo.Context) error {
	sessions, err := h.svc.Sessions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

func (h *Handler) denialPrediction(c echo.Context) error {
	var req DenialPredictionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prediction, err := h.svc.PredictDenial(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, prediction)
}

func (h *Handler) analytics(c echo.Context) error {
	a, err := h.svc.Analytics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) eraProcessing(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ERAProcessing(c.Request().Context()))
}

func (h *Handler) agingReport(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.AgingReport(c.Request().Context()))
}
