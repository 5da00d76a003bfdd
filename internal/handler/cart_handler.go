package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/middleware"
	"github.com/minishare/backend/internal/service"
)

type CartHandler struct {
	svc service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type CartItemResponse struct {
	ProductID uint64           `json:"productId"`
	Product   *ProductResponse `json:"product,omitempty"`
	AddedAt   string           `json:"addedAt"`
}

func (h *CartHandler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		item := CartItemResponse{
			ProductID: it.ProductID,
			AddedAt:   it.CreatedAt.Format(time.RFC3339),
		}
		if it.Product != nil {
			p := toProductResponse(it.Product)
			item.Product = &p
		}
		resp = append(resp, item)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": resp, "count": len(resp)})
}

func (h *CartHandler) Add(c echo.Context) error {
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Add(c.Request().Context(), middleware.UserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "added"})
}

func (h *CartHandler) Remove(c echo.Context) error {
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Remove(c.Request().Context(), middleware.UserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
