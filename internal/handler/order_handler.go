package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/middleware"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type CheckoutRequest struct {
	ProductIDs      []uint64 `json:"productIds"`
	ShippingAddress string   `json:"shippingAddress"`
}

type OrderResponse struct {
	ID              uint64           `json:"id"`
	ProductID       uint64           `json:"productId"`
	Product         *ProductResponse `json:"product,omitempty"`
	Status          string           `json:"status"`
	ShippingAddress string           `json:"shippingAddress"`
	CreatedAt       string           `json:"createdAt"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		ProductID:       o.ProductID,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
	if o.Product != nil {
		p := toProductResponse(o.Product)
		resp.Product = &p
	}
	return resp
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	orders, err := h.svc.Checkout(c.Request().Context(), middleware.UserID(c), req.ProductIDs, req.ShippingAddress)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"orders": resp})
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	orders, err := h.svc.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": resp})
}

func (h *OrderHandler) MarkPaid(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.MarkPaid(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "paid"})
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
