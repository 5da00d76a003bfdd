package repository

import (
	"context"
	"time"

	"github.com/minishare/backend/internal/model"
	"gorm.io/gorm"
)

type ProductRequestRepository interface {
	Create(ctx context.Context, req *model.ProductRequest) error
	FindByID(ctx context.Context, id uint64) (*model.ProductRequest, error)
	FindByIDWithImages(ctx context.Context, id uint64) (*model.ProductRequest, error)
	List(ctx context.Context) ([]model.ProductRequest, error)
	ListByRequester(ctx context.Context, userID uint64) ([]model.ProductRequest, error)
	ApprovedRequesterOfProduct(ctx context.Context, productID uint64) (uint64, error)
	ResolveIfPending(ctx context.Context, id uint64, status model.ProductRequestStatus, reviewerID uint64, comment *string) (int64, error)
	SetCreatedProduct(ctx context.Context, id, productID uint64) error
	Delete(ctx context.Context, id uint64) error
	CountPending(ctx context.Context) (int64, error)
}

type productRequestRepository struct {
	db *gorm.DB
}

func NewProductRequestRepository(db *gorm.DB) ProductRequestRepository {
	return &productRequestRepository{db: db}
}

func (r *productRequestRepository) Create(ctx context.Context, req *model.ProductRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *productRequestRepository) FindByID(ctx context.Context, id uint64) (*model.ProductRequest, error) {
	var req model.ProductRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *productRequestRepository) FindByIDWithImages(ctx context.Context, id uint64) (*model.ProductRequest, error) {
	var req model.ProductRequest
	err := r.db.WithContext(ctx).
		Preload("RequestedBy").
		Preload("ReviewedBy").
		Preload("OriginalProduct").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *productRequestRepository) List(ctx context.Context) ([]model.ProductRequest, error) {
	var reqs []model.ProductRequest
	err := r.db.WithContext(ctx).
		Preload("RequestedBy").
		Preload("ReviewedBy").
		Preload("OriginalProduct").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

func (r *productRequestRepository) ListByRequester(ctx context.Context, userID uint64) ([]model.ProductRequest, error) {
	var reqs []model.ProductRequest
	err := r.db.WithContext(ctx).
		Preload("OriginalProduct").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Where("requested_by_id = ?", userID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// ApprovedRequesterOfProduct returns the user who owns a live product, i.e.
// the requester of the approved new-listing request that created it. Zero
// means no owner is on record.
func (r *productRequestRepository) ApprovedRequesterOfProduct(ctx context.Context, productID uint64) (uint64, error) {
	var req model.ProductRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND (created_product_id = ? OR original_product_id = ?)",
			model.RequestStatusApproved, productID, productID).
		Order("reviewed_at desc").
		First(&req).Error
	if err != nil {
		return 0, err
	}
	return req.RequestedByID, nil
}

// ResolveIfPending flips a pending request to a terminal status in one
// conditional UPDATE. RowsAffected reports whether this call won; zero means
// the request was already resolved.
func (r *productRequestRepository) ResolveIfPending(ctx context.Context, id uint64, status model.ProductRequestStatus, reviewerID uint64, comment *string) (int64, error) {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":         status,
		"reviewed_at":    now,
		"reviewed_by_id": reviewerID,
	}
	if comment != nil {
		updates["review_comment"] = *comment
	}
	res := r.db.WithContext(ctx).
		Model(&model.ProductRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *productRequestRepository) SetCreatedProduct(ctx context.Context, id, productID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductRequest{}).
		Where("id = ?", id).
		Update("created_product_id", productID).Error
}

func (r *productRequestRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductRequest{}, id).Error
}

func (r *productRequestRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductRequest{}).
		Where("status = ?", model.RequestStatusPending).
		Count(&n).Error
	return n, err
}
