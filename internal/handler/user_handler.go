package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/middleware"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/service"
)

type UserHandler struct {
	users   service.UserService
	catalog service.CatalogService
	posts   service.PostService
}

func NewUserHandler(users service.UserService, catalog service.CatalogService, posts service.PostService) *UserHandler {
	return &UserHandler{users: users, catalog: catalog, posts: posts}
}

func (h *UserHandler) Me(c echo.Context) error {
	u, err := h.users.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

type UpdateProfileRequest struct {
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
	Gender    *string `json:"gender"`
	Birthday  *string `json:"birthday"` // YYYY-MM-DD
	Major     *string `json:"major"`
	School    *string `json:"school"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	upd := service.ProfileUpdate{
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Major:     req.Major,
		School:    req.School,
	}
	if req.Gender != nil {
		g := model.Gender(*req.Gender)
		upd.Gender = &g
	}
	if req.Birthday != nil {
		t, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "birthday must be YYYY-MM-DD"))
		}
		upd.Birthday = &t
	}
	u, err := h.users.UpdateProfile(c.Request().Context(), middleware.UserID(c), upd)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Favorites lists the caller's collected products or posts.
func (h *UserHandler) Favorites(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	switch c.QueryParam("type") {
	case "posts":
		favs, err := h.posts.ListFavorites(ctx, uid)
		if err != nil {
			return respondServiceError(c, err)
		}
		posts := make([]PostResponse, 0, len(favs))
		for _, f := range favs {
			if f.Post != nil {
				posts = append(posts, toPostResponse(f.Post))
			}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"posts": posts})
	default:
		favs, err := h.catalog.ListFavorites(ctx, uid)
		if err != nil {
			return respondServiceError(c, err)
		}
		products := make([]ProductResponse, 0, len(favs))
		for _, f := range favs {
			if f.Product != nil {
				products = append(products, toProductResponse(f.Product))
			}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
	}
}
