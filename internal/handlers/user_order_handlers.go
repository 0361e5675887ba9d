package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobboard_echo/internal/services"
)

// UserOrderHandler serves the payer's own order history
type UserOrderHandler struct {
	query *services.OrderQueryService
}

func NewUserOrderHandler(query *services.OrderQueryService) *UserOrderHandler {
	return &UserOrderHandler{query: query}
}

// MyOrders lists the caller's orders, each with its banner state when the
// purchase has already been provisioned
func (h *UserOrderHandler) MyOrders(c echo.Context) error {
	userID := getUintFromContext(c, "userID")
	views, err := h.query.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}
