package clinicaldocs

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
	writes.POST("/ai-assistance", h.assist)
	writes.POST("/save", h.save)
	writes.PUT("/documents/:id", h.update)
	writes.POST("/validate", h.validate)

	api.GET("/templates", h.templates)
	api.GET("/templates/:id", h.template)
	api.GET("/documents", h.documents)
	api.GET("/documents/:id", h.document)
}

func (h *Handler) templates(c echo.Context) error {
	list, categories := h.svc.Templates(c.QueryParam("category"))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates":  list,
		"categories": categories,
	})
}

func (h *Handler) template(c echo.Context) error {
	t, err := h.svc.Template(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) assist(c echo.Context) error {
	var req AssistanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assist, err := h.svc.Assist(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, assist)
}

func (h *Handler) save(c echo.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.svc.Save(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Document saved successfully",
		"document_id": doc.ID,
		"status":      doc.Status,
		"validation":  doc.Validation,
	})
}

func (h *Handler) documents(c echo.Context) error {
	docs, err := h.svc.List(c.Request().Context(), c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if status := c.QueryParam("status"); status != "" {
		filtered := docs[:0]
		for _, d := range docs {
			if d.Status == status {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

func (h *Handler) document(c echo.Context) error {
	doc, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.svc.UpdateDocument(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Document updated successfully",
		"document": doc,
	})
}

func (h *Handler) validate(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validation, err := h.svc.Validate(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, validation)
}

func serviceError(err error) error {
	switch {
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrDocumentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
