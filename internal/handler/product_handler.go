package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/middleware"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/service"
)

type ProductHandler struct {
	svc service.CatalogService
}

func NewProductHandler(svc service.CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type ProductResponse struct {
	ID                uint64                   `json:"id"`
	Name              string                   `json:"name"`
	Price             float64                  `json:"price"`
	Description       *string                  `json:"description,omitempty"`
	ShippingTimeHours int                      `json:"shippingTimeHours"`
	ShippingMethod    string                   `json:"shippingMethod"`
	ShippingFee       float64                  `json:"shippingFee"`
	Images            []ProductImageResponse   `json:"images"`
	Comments          []ProductCommentResponse `json:"comments,omitempty"`
	CreatedAt         string                   `json:"createdAt"`
}

type ProductCommentResponse struct {
	ID        uint64 `json:"id"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	Author    string `json:"author,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

func toProductResponse(p *model.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price,
		Description:       p.Description,
		ShippingTimeHours: p.ShippingTimeHours,
		ShippingMethod:    string(p.ShippingMethod),
		ShippingFee:       p.ShippingFee,
		Images:            make([]ProductImageResponse, 0, len(p.Images)),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, ProductImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			IsMain:    img.IsMain,
			SortOrder: img.SortOrder,
		})
	}
	for _, cm := range p.Comments {
		r := ProductCommentResponse{
			ID:        cm.ID,
			Rating:    cm.Rating,
			Content:   cm.Content,
			CreatedAt: cm.CreatedAt.Format(time.RFC3339),
		}
		if cm.Author != nil {
			r.Author = cm.Author.Username
		}
		resp.Comments = append(resp.Comments, r)
	}
	return resp
}

func (h *ProductHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	products, total, err := h.svc.List(c.Request().Context(), c.QueryParam("q"), c.QueryParam("sort"), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    total,
	}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

type AddProductCommentRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

func (h *ProductHandler) AddComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req AddProductCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cm, err := h.svc.AddComment(c.Request().Context(), id, middleware.UserID(c), req.Rating, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, ProductCommentResponse{
		ID:        cm.ID,
		Rating:    cm.Rating,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt.Format(time.RFC3339),
	})
}

func (h *ProductHandler) DeleteComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	isAdmin := c.Get(middleware.ContextRole) == model.RoleAdmin
	if err := h.svc.DeleteComment(c.Request().Context(), id, middleware.UserID(c), isAdmin); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) ToggleFavorite(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	fav, err := h.svc.ToggleFavorite(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"favorited": fav})
}

func (h *ProductHandler) CheckFavorite(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	fav, err := h.svc.IsFavorite(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"favorited": fav})
}
