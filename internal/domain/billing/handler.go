package billing

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labops/labops/internal/platform/auth"
	"github.com/labops/labops/pkg/pagination"
)

type Handler struct {
	svc       *Service
	processor *Processor
	methods   *Methods
}

func NewHandler(svc *Service, processor *Processor, methods *Methods) *Handler {
	return &Handler{svc: svc, processor: processor, methods: methods}
}

func (h *Handler) Register(g *echo.Group) {
	b := g.Group("/billing")
	b.GET("/order-payments", h.orderPayments, auth.RequireRole("admin", "billing", "lab"))
	b.GET("/payments", h.listPayments, auth.RequireRole("admin", "billing", "lab"))
	b.GET("/payments/:id", h.getPayment, auth.RequireRole("admin", "billing", "lab"))
	b.GET("/payment-methods", h.paymentMethods, auth.RequireRole("admin", "billing", "lab"))
	b.POST("/orders/:id/payments", h.submitPayment, auth.RequireRole("admin", "billing"))
}

func (h *Handler) orderPayments(c echo.Context) error {
	f := Filters{
		Search:  c.QueryParam("q"),
		Status:  splitParams(c.QueryParams()["status"]),
		Methods: parseMethods(c.QueryParams()["method"]),
		From:    c.QueryParam("from"),
		To:      c.QueryParam("to"),
	}

	views, err := h.svc.Views(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}

	switch Surface(c.QueryParam("surface")) {
	case SurfaceCard:
		return c.JSON(http.StatusOK, ProjectCards(views))
	default:
		return c.JSON(http.StatusOK, ProjectTable(views))
	}
}

func (h *Handler) listPayments(c echo.Context) error {
	p := pagination.FromContext(c)
	payments, total, err := h.svc.ListPayments(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	if payments == nil {
		payments = []*Payment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(payments, total, p.Limit, p.Offset))
}

func (h *Handler) getPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}
	p, err := h.svc.GetPayment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "payment not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) paymentMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"methods": h.methods.Enabled(),
		"default": h.methods.Default(),
	})
}

func (h *Handler) submitPayment(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var body struct {
		Method PaymentMethod `json:"method"`
		Notes  string        `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payment, err := h.processor.Submit(c.Request().Context(), SubmitInput{
		OrderID:   orderID,
		Method:    body.Method,
		Notes:     body.Notes,
		CreatedBy: auth.UserIDFromContext(c.Request().Context()),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// splitParams flattens repeated and comma-separated query values into one
// trimmed list, so `?method=cash&method=insurance` and
// `?method=cash,insurance` read the same.
func splitParams(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseMethods(values []string) []PaymentMethod {
	var out []PaymentMethod
	for _, s := range splitParams(values) {
		out = append(out, PaymentMethod(s))
	}
	return out
}

// httpError maps the billing error taxonomy onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ve.Error())
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return echo.NewHTTPError(http.StatusConflict, ce.Error())
	}
	var te *TransportError
	if errors.As(err, &te) {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream storage failure")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
