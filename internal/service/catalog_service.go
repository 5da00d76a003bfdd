package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"gorm.io/gorm"
)

// CatalogService is the storefront read side plus product comments and
// favorites. Catalog writes happen only through request approval.
type CatalogService interface {
	Get(ctx context.Context, id uint64) (*model.Product, error)
	List(ctx context.Context, keyword, sort string, limit, offset int) ([]model.Product, int64, error)
	Delete(ctx context.Context, id uint64) error

	AddComment(ctx context.Context, productID, authorID uint64, rating int, content string) (*model.ProductComment, error)
	DeleteComment(ctx context.Context, commentID, userID uint64, isAdmin bool) error

	ToggleFavorite(ctx context.Context, productID, userID uint64) (bool, error)
	IsFavorite(ctx context.Context, productID, userID uint64) (bool, error)
	ListFavorites(ctx context.Context, userID uint64) ([]model.ProductFavorite, error)
}

type catalogService struct {
	db       *gorm.DB
	products repository.ProductRepository
}

func NewCatalogService(db *gorm.DB, products repository.ProductRepository) CatalogService {
	return &catalogService{db: db, products: products}
}

func (s *catalogService) Get(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := s.products.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *catalogService) List(ctx context.Context, keyword, sort string, limit, offset int) ([]model.Product, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.products.List(ctx, repository.ListProductsFilter{
		Keyword: strings.TrimSpace(keyword),
		Sort:    sort,
		Limit:   limit,
		Offset:  offset,
	})
}

// Delete removes a product and every row that points at it. Pending edit
// requests against it are left alone; their approval will then fail with
// not-found, per the review workflow.
func (s *catalogService) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prodRepo := repository.NewProductRepository(tx)
		if _, err := prodRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := repository.NewProductImageRepository(tx).DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return prodRepo.Delete(ctx, id)
	})
}

func (s *catalogService) AddComment(ctx context.Context, productID, authorID uint64, rating int, content string) (*model.ProductComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := &model.ProductComment{
		ProductID: productID,
		AuthorID:  authorID,
		Rating:    rating,
		Content:   content,
	}
	if err := s.products.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) DeleteComment(ctx context.Context, commentID, userID uint64, isAdmin bool) error {
	c, err := s.products.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isAdmin && c.AuthorID != userID {
		return ErrForbidden
	}
	return s.products.DeleteComment(ctx, commentID)
}

func (s *catalogService) ToggleFavorite(ctx context.Context, productID, userID uint64) (bool, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	_, err := s.products.FindFavorite(ctx, productID, userID)
	switch {
	case err == nil:
		if err := s.products.DeleteFavorite(ctx, productID, userID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.products.CreateFavorite(ctx, &model.ProductFavorite{ProductID: productID, UserID: userID}); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (s *catalogService) IsFavorite(ctx context.Context, productID, userID uint64) (bool, error) {
	_, err := s.products.FindFavorite(ctx, productID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *catalogService) ListFavorites(ctx context.Context, userID uint64) ([]model.ProductFavorite, error) {
	return s.products.ListFavoritesByUser(ctx, userID)
}
