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

type OrderService interface {
	// Checkout turns the selected cart products into pending orders and
	// removes them from the cart, as one transaction.
	Checkout(ctx context.Context, userID uint64, productIDs []uint64, shippingAddress string) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
	MarkPaid(ctx context.Context, orderID, userID uint64) error
	Delete(ctx context.Context, orderID, userID uint64) error
}

type orderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) Checkout(ctx context.Context, userID uint64, productIDs []uint64, shippingAddress string) ([]model.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	if len(productIDs) == 0 {
		return nil, fmt.Errorf("%w: no products selected", ErrValidation)
	}

	var orders []model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := repository.NewCartRepository(tx)
		orderRepo := repository.NewOrderRepository(tx)
		prodRepo := repository.NewProductRepository(tx)

		items, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		inCart := make(map[uint64]bool, len(items))
		for _, it := range items {
			inCart[it.ProductID] = true
		}
		for _, id := range productIDs {
			if !inCart[id] {
				return fmt.Errorf("%w: product %d is not in the cart", ErrValidation, id)
			}
		}

		for _, id := range productIDs {
			if _, err := prodRepo.FindByID(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			o := model.Order{
				UserID:          userID,
				ProductID:       id,
				Status:          model.OrderStatusPending,
				ShippingAddress: shippingAddress,
			}
			if err := orderRepo.Create(ctx, &o); err != nil {
				return err
			}
			orders = append(orders, o)
		}

		return cartRepo.RemoveProducts(ctx, userID, productIDs)
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return repository.NewOrderRepository(s.db).ListByUser(ctx, userID)
}

func (s *orderService) MarkPaid(ctx context.Context, orderID, userID uint64) error {
	orderRepo := repository.NewOrderRepository(s.db)
	o, err := orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if o.UserID != userID {
		return ErrForbidden
	}
	rows, err := orderRepo.MarkPaidIfPending(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (s *orderService) Delete(ctx context.Context, orderID, userID uint64) error {
	orderRepo := repository.NewOrderRepository(s.db)
	o, err := orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if o.UserID != userID {
		return ErrForbidden
	}
	if o.Status != model.OrderStatusPending {
		return fmt.Errorf("%w: only pending orders can be removed", ErrValidation)
	}
	return orderRepo.Delete(ctx, orderID)
}
