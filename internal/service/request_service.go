package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"github.com/minishare/backend/internal/storage"
	"gorm.io/gorm"
)

const maxListingImages = 5

// RequestInput carries the product fields of a listing or edit submission.
type RequestInput struct {
	Name              string
	Price             float64
	Description       *string
	ShippingTimeHours int
	ShippingMethod    model.ShippingMethod
	ShippingFee       float64
}

// ImageUpload is one image file received with a submission.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ApprovalResult reports what an approval did: the product now carrying the
// request's fields and a confirmation message naming it.
type ApprovalResult struct {
	Product *model.Product
	Message string
}

// RequestService drives product requests from submission through review and
// applies approved requests to the catalog.
type RequestService interface {
	Submit(ctx context.Context, requesterID uint64, in RequestInput, images []ImageUpload) (*model.ProductRequest, error)
	SubmitEdit(ctx context.Context, requesterID, productID uint64, in RequestInput, newImages []ImageUpload, keepImageIDs []uint64) (*model.ProductRequest, error)
	Approve(ctx context.Context, requestID, reviewerID uint64) (*ApprovalResult, error)
	Reject(ctx context.Context, requestID, reviewerID uint64, comment *string) error
	Delete(ctx context.Context, requestID uint64) error
	Get(ctx context.Context, id uint64) (*model.ProductRequest, error)
	List(ctx context.Context) ([]model.ProductRequest, error)
	ListByRequester(ctx context.Context, userID uint64) ([]model.ProductRequest, error)
	ProductsOfRequester(ctx context.Context, userID uint64) ([]model.Product, error)
	OwnerOfProduct(ctx context.Context, productID uint64) (uint64, error)
}

type requestService struct {
	db    *gorm.DB
	store storage.Service
}

func NewRequestService(db *gorm.DB, store storage.Service) RequestService {
	return &requestService{db: db, store: store}
}

func (s *requestService) validateInput(in *RequestInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(in.Name) > 100 {
		return fmt.Errorf("%w: name exceeds 100 characters", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.ShippingTimeHours < 0 || in.ShippingTimeHours > 999 {
		return fmt.Errorf("%w: shipping time must be between 0 and 999 hours", ErrValidation)
	}
	if in.ShippingFee < 0 {
		return fmt.Errorf("%w: shipping fee must not be negative", ErrValidation)
	}
	switch in.ShippingMethod {
	case model.ShippingMethodExpress, model.ShippingMethodMeetup, model.ShippingMethodFreeShipping:
	case "":
		in.ShippingMethod = model.ShippingMethodExpress
	default:
		return fmt.Errorf("%w: unknown shipping method %q", ErrValidation, in.ShippingMethod)
	}
	return nil
}

func (s *requestService) validateImages(images []ImageUpload) error {
	for _, img := range images {
		if _, err := storage.Validate(img.Filename, int64(len(img.Data))); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrValidation, img.Filename, err)
		}
	}
	return nil
}

func (s *requestService) uploadAll(ctx context.Context, images []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.store.Upload(ctx, img.Filename, img.Data)
		if err != nil {
			s.discardUploads(ctx, urls)
			return nil, fmt.Errorf("upload %s: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *requestService) discardUploads(ctx context.Context, urls []string) {
	for _, u := range urls {
		_ = s.store.Delete(ctx, u)
	}
}

// resolveRequester confirms the acting user still exists. A valid token can
// outlive its account, and a request must never point at a deleted requester.
func (s *requestService) resolveRequester(ctx context.Context, requesterID uint64) error {
	if _, err := repository.NewUserRepository(s.db).FindByID(ctx, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	return nil
}

func (s *requestService) Submit(ctx context.Context, requesterID uint64, in RequestInput, images []ImageUpload) (*model.ProductRequest, error) {
	if err := s.resolveRequester(ctx, requesterID); err != nil {
		return nil, err
	}
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	if len(images) > maxListingImages {
		return nil, fmt.Errorf("%w: at most %d images allowed", ErrValidation, maxListingImages)
	}
	if err := s.validateImages(images); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}

	req := &model.ProductRequest{
		Name:              in.Name,
		Price:             in.Price,
		Description:       in.Description,
		ShippingTimeHours: in.ShippingTimeHours,
		ShippingMethod:    in.ShippingMethod,
		ShippingFee:       in.ShippingFee,
		Status:            model.RequestStatusPending,
		RequestedByID:     requesterID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewProductRequestRepository(tx).Create(ctx, req); err != nil {
			return err
		}
		staged := make([]model.ProductImage, 0, len(urls))
		for i, u := range urls {
			staged = append(staged, model.ProductImage{
				ProductRequestID: &req.ID,
				ImageURL:         u,
				IsMain:           i == 0,
				SortOrder:        i,
			})
		}
		return repository.NewProductImageRepository(tx).CreateBatch(ctx, staged)
	})
	if err != nil {
		s.discardUploads(ctx, urls)
		return nil, err
	}
	return req, nil
}

func (s *requestService) SubmitEdit(ctx context.Context, requesterID, productID uint64, in RequestInput, newImages []ImageUpload, keepImageIDs []uint64) (*model.ProductRequest, error) {
	if err := s.resolveRequester(ctx, requesterID); err != nil {
		return nil, err
	}
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	prodRepo := repository.NewProductRepository(s.db)
	imgRepo := repository.NewProductImageRepository(s.db)

	if _, err := prodRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	owner, err := s.OwnerOfProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if owner != requesterID {
		return nil, ErrForbidden
	}

	kept, err := imgRepo.FindByIDs(ctx, keepImageIDs)
	if err != nil {
		return nil, err
	}
	for _, img := range kept {
		if img.ProductID == nil || *img.ProductID != productID {
			return nil, fmt.Errorf("%w: image %d does not belong to product %d", ErrValidation, img.ID, productID)
		}
	}

	total := len(kept) + len(newImages)
	if total == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	if total > maxListingImages {
		return nil, fmt.Errorf("%w: at most %d images allowed", ErrValidation, maxListingImages)
	}
	if err := s.validateImages(newImages); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, newImages)
	if err != nil {
		return nil, err
	}

	req := &model.ProductRequest{
		Name:              in.Name,
		Price:             in.Price,
		Description:       in.Description,
		ShippingTimeHours: in.ShippingTimeHours,
		ShippingMethod:    in.ShippingMethod,
		ShippingFee:       in.ShippingFee,
		Status:            model.RequestStatusPending,
		RequestedByID:     requesterID,
		OriginalProductID: &productID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txImages := repository.NewProductImageRepository(tx)
		if err := repository.NewProductRequestRepository(tx).Create(ctx, req); err != nil {
			return err
		}
		resolver := imageResolver{images: txImages}
		if err := resolver.CopyToRequest(ctx, kept, req.ID); err != nil {
			return err
		}
		nextOrder := 0
		for _, img := range kept {
			if img.SortOrder >= nextOrder {
				nextOrder = img.SortOrder + 1
			}
		}
		staged := make([]model.ProductImage, 0, len(urls))
		for i, u := range urls {
			staged = append(staged, model.ProductImage{
				ProductRequestID: &req.ID,
				ImageURL:         u,
				SortOrder:        nextOrder + i,
			})
		}
		if err := txImages.CreateBatch(ctx, staged); err != nil {
			return err
		}
		// The kept subset may exclude the old main image. Promote the first
		// staged image in that case so the request carries exactly one main.
		all, err := txImages.ListByRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		for _, img := range all {
			if img.IsMain {
				return nil
			}
		}
		return txImages.SetMain(ctx, all[0].ID)
	})
	if err != nil {
		s.discardUploads(ctx, urls)
		return nil, err
	}
	return req, nil
}

// Approve resolves a pending request and applies it to the catalog as one
// transaction. The status flip is a conditional update, so a request that
// was resolved concurrently reports ErrAlreadyProcessed instead of applying
// twice. An edit request whose target product is gone fails with ErrNotFound
// and leaves the request pending.
func (s *requestService) Approve(ctx context.Context, requestID, reviewerID uint64) (*ApprovalResult, error) {
	var result ApprovalResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := repository.NewProductRequestRepository(tx)
		imgRepo := repository.NewProductImageRepository(tx)
		prodRepo := repository.NewProductRepository(tx)
		resolver := imageResolver{images: imgRepo}

		req, err := reqRepo.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		rows, err := reqRepo.ResolveIfPending(ctx, requestID, model.RequestStatusApproved, reviewerID, nil)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyProcessed
		}

		staged, err := imgRepo.ListByRequest(ctx, requestID)
		if err != nil {
			return err
		}

		if req.OriginalProductID != nil {
			product, err := prodRepo.FindByID(ctx, *req.OriginalProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Target product vanished after submission. Abort so the
					// status flip above rolls back with everything else.
					return ErrNotFound
				}
				return err
			}
			product.Name = req.Name
			product.Price = req.Price
			product.Description = req.Description
			product.ShippingTimeHours = req.ShippingTimeHours
			product.ShippingMethod = req.ShippingMethod
			product.ShippingFee = req.ShippingFee
			if err := prodRepo.Update(ctx, product); err != nil {
				return err
			}
			if err := imgRepo.DeleteByProduct(ctx, product.ID); err != nil {
				return err
			}
			if err := resolver.Reparent(ctx, staged, requestID, product.ID); err != nil {
				return err
			}
			result = ApprovalResult{
				Product: product,
				Message: fmt.Sprintf("Edit request for %q approved.", req.Name),
			}
			return nil
		}

		product := &model.Product{
			Name:              req.Name,
			Price:             req.Price,
			Description:       req.Description,
			ShippingTimeHours: req.ShippingTimeHours,
			ShippingMethod:    req.ShippingMethod,
			ShippingFee:       req.ShippingFee,
		}
		if err := prodRepo.Create(ctx, product); err != nil {
			return err
		}
		if err := reqRepo.SetCreatedProduct(ctx, requestID, product.ID); err != nil {
			return err
		}
		if err := resolver.Reparent(ctx, staged, requestID, product.ID); err != nil {
			return err
		}
		result = ApprovalResult{
			Product: product,
			Message: fmt.Sprintf("Listing request for %q approved.", req.Name),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *requestService) Reject(ctx context.Context, requestID, reviewerID uint64, comment *string) error {
	reqRepo := repository.NewProductRequestRepository(s.db)
	if _, err := reqRepo.FindByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	rows, err := reqRepo.ResolveIfPending(ctx, requestID, model.RequestStatusRejected, reviewerID, comment)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// Delete removes a request in any state together with images still staged
// under it. Images already re-parented to a product are untouched.
func (s *requestService) Delete(ctx context.Context, requestID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := repository.NewProductRequestRepository(tx)
		if _, err := reqRepo.FindByID(ctx, requestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := repository.NewProductImageRepository(tx).DeleteByRequest(ctx, requestID); err != nil {
			return err
		}
		return reqRepo.Delete(ctx, requestID)
	})
}

func (s *requestService) Get(ctx context.Context, id uint64) (*model.ProductRequest, error) {
	req, err := repository.NewProductRequestRepository(s.db).FindByIDWithImages(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context) ([]model.ProductRequest, error) {
	return repository.NewProductRequestRepository(s.db).List(ctx)
}

func (s *requestService) ListByRequester(ctx context.Context, userID uint64) ([]model.ProductRequest, error) {
	return repository.NewProductRequestRepository(s.db).ListByRequester(ctx, userID)
}

func (s *requestService) ProductsOfRequester(ctx context.Context, userID uint64) ([]model.Product, error) {
	reqs, err := repository.NewProductRequestRepository(s.db).ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{})
	ids := make([]uint64, 0, len(reqs))
	for _, r := range reqs {
		if r.Status != model.RequestStatusApproved {
			continue
		}
		var id uint64
		switch {
		case r.CreatedProductID != nil:
			id = *r.CreatedProductID
		case r.OriginalProductID != nil:
			id = *r.OriginalProductID
		default:
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return repository.NewProductRepository(s.db).FindByIDs(ctx, ids)
}

func (s *requestService) OwnerOfProduct(ctx context.Context, productID uint64) (uint64, error) {
	owner, err := repository.NewProductRequestRepository(s.db).ApprovedRequesterOfProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrForbidden
		}
		return 0, err
	}
	return owner, nil
}
