package repository

import (
	"context"

	"github.com/minishare/backend/internal/model"
	"gorm.io/gorm"
)

// ListProductsFilter narrows and orders the storefront listing query.
type ListProductsFilter struct {
	Keyword string
	Sort    string // created_desc (default), price_asc, price_desc
	Limit   int
	Offset  int
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	FindByIDWithDetails(ctx context.Context, id uint64) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Product, error)
	List(ctx context.Context, f ListProductsFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)

	CreateComment(ctx context.Context, c *model.ProductComment) error
	FindCommentByID(ctx context.Context, id uint64) (*model.ProductComment, error)
	DeleteComment(ctx context.Context, id uint64) error

	FindFavorite(ctx context.Context, productID, userID uint64) (*model.ProductFavorite, error)
	CreateFavorite(ctx context.Context, f *model.ProductFavorite) error
	DeleteFavorite(ctx context.Context, productID, userID uint64) error
	ListFavoritesByUser(ctx context.Context, userID uint64) ([]model.ProductFavorite, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByIDWithDetails(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_main desc, sort_order asc, id asc")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		Preload("Comments.Author").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_main desc, sort_order asc, id asc")
		}).
		Where("id IN ?", ids).
		Order("created_at desc").
		Find(&products).Error
	return products, err
}

func (r *productRepository) List(ctx context.Context, f ListProductsFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at desc"
	switch f.Sort {
	case "price_asc":
		order = "price asc"
	case "price_desc":
		order = "price desc"
	}

	var products []model.Product
	err := q.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_main desc, sort_order asc, id asc")
	}).
		Order(order).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepository) CreateComment(ctx context.Context, c *model.ProductComment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *productRepository) FindCommentByID(ctx context.Context, id uint64) (*model.ProductComment, error) {
	var c model.ProductComment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *productRepository) DeleteComment(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductComment{}, id).Error
}

func (r *productRepository) FindFavorite(ctx context.Context, productID, userID uint64) (*model.ProductFavorite, error) {
	var f model.ProductFavorite
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *productRepository) CreateFavorite(ctx context.Context, f *model.ProductFavorite) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *productRepository) DeleteFavorite(ctx context.Context, productID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Delete(&model.ProductFavorite{}).Error
}

func (r *productRepository) ListFavoritesByUser(ctx context.Context, userID uint64) ([]model.ProductFavorite, error) {
	var favs []model.ProductFavorite
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_main desc, sort_order asc, id asc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favs).Error
	return favs, err
}
