package claims

import (
	"errors"
	"net/http"
	"time"

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
	writes.POST("/batch-submit", h.batchSubmit)

	api.GET("/status/:claim_number", h.status)
	api.GET("/list", h.list)
	api.GET("/analytics", h.analytics)
}

func (h *Handler) submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":                   "Claim submitted successfully",
		"claim_id":                  res.Claim.ClaimNumber,
		"status":                    res.Claim.Status,
		"allowed_amount":            res.Claim.AllowedAmount,
		"scrubbing_results":         res.Scrub,
		"estimated_processing_time": "7-14 business days",
	})
}

func (h *Handler) batchSubmit(c echo.Context) error {
	var req BatchSubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := h.svc.BatchSubmit(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	submitted, review := 0, 0
	items := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		if res.Claim.Status == StatusSubmitted {
			submitted++
		} else {
			review++
		}
		items = append(items, map[string]interface{}{
			"claim_id":          res.Claim.ClaimNumber,
			"status":            res.Claim.Status,
			"scrubbing_results": res.Scrub,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Batch processed",
		"results": items,
		"summary": map[string]int{
			"total":           len(results),
			"submitted":       submitted,
			"review_required": review,
		},
	})
}

func (h *Handler) status(c echo.Context) error {
	cl, err := h.svc.Status(c.Request().Context(), c.Param("claim_number"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)

	f := ListFilters{Status: c.QueryParam("status")}
	if from := c.QueryParam("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_from must be YYYY-MM-DD")
		}
		f.From = &t
	}
	if to := c.QueryParam("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_to must be YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}

	list, total, summary, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"claims":  list,
		"total":   total,
		"limit":   p.Limit,
		"offset":  p.Offset,
		"summary": summary,
	})
}

func (h *Handler) analytics(c echo.Context) error {
	a, err := h.svc.Analytics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
