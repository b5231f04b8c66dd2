package worklist

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
	api.GET("/worklist", h.ListPending)
	api.GET("/worklist/matrix", h.GetMatrix)
	api.GET("/worklist/referrals", h.ListReferrals)
	api.POST("/worklist/dispatch", h.Dispatch)
	api.GET("/worklist/assignments/:saleId", h.ListAssignments)
	api.DELETE("/worklist/assignments/:saleTestId", h.Recall)
}

func (h *Handler) ListPending(c echo.Context) error {
	entries, err := h.svc.PendingEntries(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) GetMatrix(c echo.Context) error {
	m, err := h.svc.Matrix(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListReferrals(c echo.Context) error {
	items, err := h.svc.Referrals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []ReferralEntry{}
	}
	return c.JSON(http.StatusOK, items)
}

type dispatchRequest struct {
	SaleID     uuid.UUID  `json:"saleId"`
	SaleTestID uuid.UUID  `json:"saleTestId"`
	LabID      *uuid.UUID `json:"labId,omitempty"`
}

func (h *Handler) Dispatch(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Dispatch(c.Request().Context(), req.SaleID, req.SaleTestID, req.LabID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAssignments(c echo.Context) error {
	saleID, err := uuid.Parse(c.Param("saleId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sale id")
	}
	items, err := h.svc.Assignments(c.Request().Context(), saleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*ReferralAssignment{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Recall(c echo.Context) error {
	saleTestID, err := uuid.Parse(c.Param("saleTestId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sale test id")
	}
	if err := h.svc.Recall(c.Request().Context(), saleTestID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
