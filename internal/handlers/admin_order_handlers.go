package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"jobboard_echo/internal/models"
	"jobboard_echo/internal/services"
)

// AdminOrderHandler exposes the admin order surface: listing, detail and
// the approve/provision action.
type AdminOrderHandler struct {
	query    *services.OrderQueryService
	approval *services.ApprovalService
}

func NewAdminOrderHandler(query *services.OrderQueryService, approval *services.ApprovalService) *AdminOrderHandler {
	return &AdminOrderHandler{query: query, approval: approval}
}

// ListOrders returns a filtered, paginated order listing
func (h *AdminOrderHandler) ListOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	filter := services.OrderFilter{
		Status:   models.OrderStatus(c.QueryParam("status")),
		Kind:     models.PackageKind(c.QueryParam("kind")),
		Page:     page,
		PageSize: pageSize,
	}

	orders, pagination, err := h.query.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Data: orders, Meta: pagination})
}

// GetOrder returns one order with package and company details
func (h *AdminOrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.query.Get(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ApproveOrder provisions the purchased resource for a paid order.
// Precondition failures map to 404/409 in the error handler so the admin UI
// can show an actionable message.
func (h *AdminOrderHandler) ApproveOrder(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID")
	}

	result, err := h.approval.ApproveAndProvision(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
