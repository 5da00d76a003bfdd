package repository

import (
	"context"

	"github.com/minishare/backend/internal/model"
	"gorm.io/gorm"
)

type ProductImageRepository interface {
	CreateBatch(ctx context.Context, images []model.ProductImage) error
	ListByRequest(ctx context.Context, requestID uint64) ([]model.ProductImage, error)
	ListByProduct(ctx context.Context, productID uint64) ([]model.ProductImage, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.ProductImage, error)
	SetMain(ctx context.Context, id uint64) error
	ReparentToProduct(ctx context.Context, ids []uint64, productID uint64) error
	DeleteByProduct(ctx context.Context, productID uint64) error
	DeleteByRequest(ctx context.Context, requestID uint64) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) CreateBatch(ctx context.Context, images []model.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *productImageRepository) ListByRequest(ctx context.Context, requestID uint64) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_request_id = ?", requestID).
		Order("sort_order asc, id asc").
		Find(&images).Error
	return images, err
}

func (r *productImageRepository) ListByProduct(ctx context.Context, productID uint64) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_main desc, sort_order asc, id asc").
		Find(&images).Error
	return images, err
}

func (r *productImageRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.ProductImage, error) {
	var images []model.ProductImage
	if len(ids) == 0 {
		return images, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("sort_order asc, id asc").
		Find(&images).Error
	return images, err
}

func (r *productImageRepository) SetMain(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductImage{}).
		Where("id = ?", id).
		Update("is_main", true).Error
}

// ReparentToProduct swaps ownership in one statement: the product key is set
// and the request key cleared together so no row ever holds both.
func (r *productImageRepository) ReparentToProduct(ctx context.Context, ids []uint64, productID uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.ProductImage{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"product_id":         productID,
			"product_request_id": nil,
		}).Error
}

func (r *productImageRepository) DeleteByProduct(ctx context.Context, productID uint64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductImage{}).Error
}

func (r *productImageRepository) DeleteByRequest(ctx context.Context, requestID uint64) error {
	return r.db.WithContext(ctx).
		Where("product_request_id = ?", requestID).
		Delete(&model.ProductImage{}).Error
}
