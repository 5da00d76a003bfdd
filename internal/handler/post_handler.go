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

type PostHandler struct {
	svc service.PostService
}

func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type PostImageResponse struct {
	ID        uint64 `json:"id"`
	ImageURL  string `json:"imageUrl"`
	SortOrder int    `json:"sortOrder"`
}

type CommentResponse struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type PostResponse struct {
	ID        uint64              `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Author    string              `json:"author,omitempty"`
	AuthorID  uint64              `json:"authorId"`
	LikeCount int                 `json:"likeCount"`
	Images    []PostImageResponse `json:"images"`
	Comments  []CommentResponse   `json:"comments,omitempty"`
	CreatedAt string              `json:"createdAt"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int64          `json:"total"`
}

func toPostResponse(p *model.Post) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		LikeCount: p.LikeCount,
		Images:    make([]PostImageResponse, 0, len(p.Images)),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.Author != nil {
		resp.Author = p.Author.Username
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, PostImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			SortOrder: img.SortOrder,
		})
	}
	for _, cm := range p.Comments {
		r := CommentResponse{
			ID:        cm.ID,
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

// Create accepts a multipart form: title, content, up to 9 images.
func (h *PostHandler) Create(c echo.Context) error {
	var images []service.ImageUpload
	if form, err := c.MultipartForm(); err == nil {
		images, err = readUploads(form.File["images"])
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid image upload"))
		}
	}
	post, err := h.svc.Create(c.Request().Context(), middleware.UserID(c), c.FormValue("title"), c.FormValue("content"), images)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

func (h *PostHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	post, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

func (h *PostHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	posts, total, err := h.svc.List(c.Request().Context(), c.QueryParam("q"), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := PostListResponse{
		Posts: make([]PostResponse, 0, len(posts)),
		Total: total,
	}
	for i := range posts {
		resp.Posts = append(resp.Posts, toPostResponse(&posts[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) ListMine(c echo.Context) error {
	posts, err := h.svc.ListByAuthor(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]PostResponse, 0, len(posts))
	for i := range posts {
		resp = append(resp, toPostResponse(&posts[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": resp})
}

func (h *PostHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	isAdmin := c.Get(middleware.ContextRole) == model.RoleAdmin
	if err := h.svc.Delete(c.Request().Context(), id, middleware.UserID(c), isAdmin); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) ToggleLike(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	liked, count, err := h.svc.ToggleLike(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"liked": liked, "likeCount": count})
}

func (h *PostHandler) CheckLike(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	liked, err := h.svc.IsLiked(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"liked": liked})
}

func (h *PostHandler) ToggleFavorite(c echo.Context) error {
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

func (h *PostHandler) CheckFavorite(c echo.Context) error {
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

type AddCommentRequest struct {
	Content string `json:"content"`
}

func (h *PostHandler) AddComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cm, err := h.svc.AddComment(c.Request().Context(), id, middleware.UserID(c), req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, CommentResponse{
		ID:        cm.ID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt.Format(time.RFC3339),
	})
}

func (h *PostHandler) DeleteComment(c echo.Context) error {
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
