package repository

import (
	"context"

	"github.com/minishare/backend/internal/model"
	"gorm.io/gorm"
)

type CartRepository interface {
	Add(ctx context.Context, item *model.CartItem) error
	Remove(ctx context.Context, userID, productID uint64) error
	RemoveProducts(ctx context.Context, userID uint64, productIDs []uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error)
	Contains(ctx context.Context, userID, productID uint64) (bool, error)
	Clear(ctx context.Context, userID uint64) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Add(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepository) Remove(ctx context.Context, userID, productID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepository) RemoveProducts(ctx context.Context, userID uint64, productIDs []uint64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_main desc, sort_order asc, id asc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (r *cartRepository) Contains(ctx context.Context, userID, productID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, err
}

func (r *cartRepository) Clear(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
