package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Gender    string  `json:"gender"`
	Birthday  *string `json:"birthday,omitempty"`
	Major     *string `json:"major,omitempty"`
	School    *string `json:"school,omitempty"`
	Locked    bool    `json:"locked"`
	CreatedAt string  `json:"createdAt"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, token, err := h.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(u)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, token, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(u)})
}

func toUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Gender:    string(u.Gender),
		Major:     u.Major,
		School:    u.School,
		Locked:    u.Locked,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.Birthday != nil {
		b := u.Birthday.Format("2006-01-02")
		resp.Birthday = &b
	}
	return resp
}
