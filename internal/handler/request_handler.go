package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/middleware"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/service"
	"github.com/minishare/backend/internal/storage"
)

type RequestHandler struct {
	svc service.RequestService
}

func NewRequestHandler(svc service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

type ProductImageResponse struct {
	ID        uint64 `json:"id"`
	ImageURL  string `json:"imageUrl"`
	IsMain    bool   `json:"isMain"`
	SortOrder int    `json:"sortOrder"`
}

type ProductRequestResponse struct {
	ID                uint64                 `json:"id"`
	Name              string                 `json:"name"`
	Price             float64                `json:"price"`
	Description       *string                `json:"description,omitempty"`
	ShippingTimeHours int                    `json:"shippingTimeHours"`
	ShippingMethod    string                 `json:"shippingMethod"`
	ShippingFee       float64                `json:"shippingFee"`
	Status            string                 `json:"status"`
	ReviewComment     *string                `json:"reviewComment,omitempty"`
	RequestedBy       *UserResponse          `json:"requestedBy,omitempty"`
	ReviewedBy        *UserResponse          `json:"reviewedBy,omitempty"`
	OriginalProduct   *ProductResponse       `json:"originalProduct,omitempty"`
	Images            []ProductImageResponse `json:"images"`
	CreatedAt         string                 `json:"createdAt"`
	ReviewedAt        *string                `json:"reviewedAt,omitempty"`
}

func toRequestResponse(r *model.ProductRequest) ProductRequestResponse {
	resp := ProductRequestResponse{
		ID:                r.ID,
		Name:              r.Name,
		Price:             r.Price,
		Description:       r.Description,
		ShippingTimeHours: r.ShippingTimeHours,
		ShippingMethod:    string(r.ShippingMethod),
		ShippingFee:       r.ShippingFee,
		Status:            string(r.Status),
		ReviewComment:     r.ReviewComment,
		Images:            make([]ProductImageResponse, 0, len(r.Images)),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		t := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &t
	}
	if r.RequestedBy != nil {
		u := toUserResponse(r.RequestedBy)
		resp.RequestedBy = &u
	}
	if r.ReviewedBy != nil {
		u := toUserResponse(r.ReviewedBy)
		resp.ReviewedBy = &u
	}
	if r.OriginalProduct != nil {
		p := toProductResponse(r.OriginalProduct)
		resp.OriginalProduct = &p
	}
	for _, img := range r.Images {
		resp.Images = append(resp.Images, ProductImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			IsMain:    img.IsMain,
			SortOrder: img.SortOrder,
		})
	}
	return resp
}

func bindRequestInput(c echo.Context) (service.RequestInput, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return service.RequestInput{}, err
	}
	hours := 24
	if v := c.FormValue("shippingTimeHours"); v != "" {
		hours, err = strconv.Atoi(v)
		if err != nil {
			return service.RequestInput{}, err
		}
	}
	fee := 0.0
	if v := c.FormValue("shippingFee"); v != "" {
		fee, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return service.RequestInput{}, err
		}
	}
	in := service.RequestInput{
		Name:              c.FormValue("name"),
		Price:             price,
		ShippingTimeHours: hours,
		ShippingMethod:    model.ShippingMethod(c.FormValue("shippingMethod")),
		ShippingFee:       fee,
	}
	if desc := c.FormValue("description"); desc != "" {
		in.Description = &desc
	}
	return in, nil
}

func readUploads(files []*multipart.FileHeader) ([]service.ImageUpload, error) {
	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > storage.MaxFileSize {
			return nil, storage.ErrFileTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.ImageUpload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func formImages(c echo.Context) ([]service.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return readUploads(form.File["images"])
}

// Submit handles a new listing submission (multipart form with 1-5 images).
func (h *RequestHandler) Submit(c echo.Context) error {
	in, err := bindRequestInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid form fields"))
	}
	images, err := formImages(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid image upload"))
	}
	req, err := h.svc.Submit(c.Request().Context(), middleware.UserID(c), in, images)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toRequestResponse(req))
}

// SubmitEdit files an edit request against a product the caller owns.
// keepImageIds selects which of the product's current images to carry over.
func (h *RequestHandler) SubmitEdit(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	in, err := bindRequestInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid form fields"))
	}
	var images []service.ImageUpload
	if form, err := c.MultipartForm(); err == nil {
		images, err = readUploads(form.File["images"])
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid image upload"))
		}
	}
	var keep []uint64
	if raw := c.FormValue("keepImageIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid keepImageIds"))
			}
			keep = append(keep, id)
		}
	}
	req, err := h.svc.SubmitEdit(c.Request().Context(), middleware.UserID(c), productID, in, images, keep)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toRequestResponse(req))
}

func (h *RequestHandler) ListMine(c echo.Context) error {
	reqs, err := h.svc.ListByRequester(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]ProductRequestResponse, 0, len(reqs))
	for i := range reqs {
		resp = append(resp, toRequestResponse(&reqs[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"requests": resp})
}

func (h *RequestHandler) ListMyProducts(c echo.Context) error {
	products, err := h.svc.ProductsOfRequester(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": resp})
}

// List is the moderation queue, newest first.
func (h *RequestHandler) List(c echo.Context) error {
	reqs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]ProductRequestResponse, 0, len(reqs))
	for i := range reqs {
		resp = append(resp, toRequestResponse(&reqs[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"requests": resp})
}

func (h *RequestHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toRequestResponse(req))
}

func (h *RequestHandler) Approve(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	result, err := h.svc.Approve(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "approved",
		"message": result.Message,
		"product": toProductResponse(result.Product),
	})
}

type RejectRequest struct {
	ReviewComment *string `json:"reviewComment"`
}

func (h *RequestHandler) Reject(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.Reject(c.Request().Context(), id, middleware.UserID(c), req.ReviewComment); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *RequestHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
