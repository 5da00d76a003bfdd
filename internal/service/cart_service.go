package service

import (
	"context"
	"errors"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"gorm.io/gorm"
)

// CartService is the explicit per-user cart aggregate. Every operation takes
// the owning user id; nothing is read from ambient request state.
type CartService interface {
	Add(ctx context.Context, userID, productID uint64) error
	Remove(ctx context.Context, userID, productID uint64) error
	List(ctx context.Context, userID uint64) ([]model.CartItem, error)
	Contains(ctx context.Context, userID, productID uint64) (bool, error)
}

type cartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(cart repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{cart: cart, products: products}
}

func (s *cartService) Add(ctx context.Context, userID, productID uint64) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	in, err := s.cart.Contains(ctx, userID, productID)
	if err != nil {
		return err
	}
	if in {
		return nil
	}
	return s.cart.Add(ctx, &model.CartItem{UserID: userID, ProductID: productID})
}

func (s *cartService) Remove(ctx context.Context, userID, productID uint64) error {
	return s.cart.Remove(ctx, userID, productID)
}

func (s *cartService) List(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	return s.cart.ListByUser(ctx, userID)
}

func (s *cartService) Contains(ctx context.Context, userID, productID uint64) (bool, error) {
	return s.cart.Contains(ctx, userID, productID)
}
