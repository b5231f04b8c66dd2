package pricing

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/external-labs", h.ListExternalLabs)
	api.POST("/external-labs", h.CreateExternalLab)
	api.PUT("/external-labs/:id", h.UpdateExternalLab)
	api.DELETE("/external-labs/:id", h.DeleteExternalLab)

	api.GET("/lab-prices/table", h.GetPriceTable)
	api.GET("/lab-prices/:testId", h.ListPricesByTest)
	api.PUT("/lab-prices", h.SetLabPrice)
	api.DELETE("/lab-prices/:testId/:labId", h.DeleteLabPrice)
}

func (h *Handler) CreateExternalLab(c echo.Context) error {
	var l ExternalLab
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateExternalLab(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) UpdateExternalLab(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var l ExternalLab
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l.ID = id
	if err := h.svc.UpdateExternalLab(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) DeleteExternalLab(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteExternalLab(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListExternalLabs(c echo.Context) error {
	labs, err := h.svc.ListExternalLabs(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, labs)
}

func (h *Handler) SetLabPrice(c echo.Context) error {
	var p LabPrice
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetLabPrice(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteLabPrice(c echo.Context) error {
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}
	labID, err := uuid.Parse(c.Param("labId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lab id")
	}
	if err := h.svc.DeleteLabPrice(c.Request().Context(), testID, labID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPricesByTest(c echo.Context) error {
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}
	prices, err := h.svc.ListPricesByTest(c.Request().Context(), testID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, prices)
}

func (h *Handler) GetPriceTable(c echo.Context) error {
	rows, labs, err := h.svc.PriceTable(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"labs": labs,
		"rows": rows,
	})
}
