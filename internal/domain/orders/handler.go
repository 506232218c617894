package orders

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labops/labops/internal/platform/auth"
	"github.com/labops/labops/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	o := g.Group("/orders")
	o.GET("", h.list, auth.RequireRole("admin", "billing", "lab"))
	o.GET("/:id", h.get, auth.RequireRole("admin", "billing", "lab"))
	o.GET("/:id/history", h.history, auth.RequireRole("admin", "billing", "lab"))
	o.POST("", h.create, auth.RequireRole("admin", "lab"))
	o.PATCH("/:id/tests/:testID/status", h.updateTestStatus, auth.RequireRole("admin", "lab"))
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	f := ListFilter{
		Status:        OrderStatus(c.QueryParam("status")),
		PaymentStatus: PaymentStatus(c.QueryParam("payment_status")),
		PatientID:     c.QueryParam("patient_id"),
	}
	items, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list orders")
	}
	if items == nil {
		items = []*Order{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) history(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	changes, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load order history")
	}
	if changes == nil {
		changes = []*StatusChange{}
	}
	return c.JSON(http.StatusOK, changes)
}

func (h *Handler) create(c echo.Context) error {
	var in CreateOrderInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	o, err := h.svc.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) updateTestStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	itemID, err := uuid.Parse(c.Param("testID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test item id")
	}

	var body struct {
		Status TestStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := auth.UserIDFromContext(c.Request().Context())
	o, err := h.svc.UpdateTestStatus(c.Request().Context(), orderID, itemID, body.Status, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}
