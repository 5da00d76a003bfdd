package service

import (
	"context"
	"errors"
	"testing"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
)

func TestCheckout(t *testing.T) {
	gdb := newTestDB(t)
	cartSvc := NewCartService(repository.NewCartRepository(gdb), repository.NewProductRepository(gdb))
	orderSvc := NewOrderService(gdb)
	user := seedUser(t, gdb, "alice", model.RoleUser)
	lamp := seedProduct(t, gdb, "Desk Lamp", 15.50)
	fridge := seedProduct(t, gdb, "Mini Fridge", 60)
	kettle := seedProduct(t, gdb, "Kettle", 8)
	ctx := context.Background()

	for _, p := range []*model.Product{lamp, fridge, kettle} {
		if err := cartSvc.Add(ctx, user.ID, p.ID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}

	t.Run("rejects product not in cart", func(t *testing.T) {
		_, err := orderSvc.Checkout(ctx, user.ID, []uint64{99999}, "Dorm 4, Room 12")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err=%v want ErrValidation", err)
		}
	})

	t.Run("rejects empty address", func(t *testing.T) {
		_, err := orderSvc.Checkout(ctx, user.ID, []uint64{lamp.ID}, "  ")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err=%v want ErrValidation", err)
		}
	})

	t.Run("creates pending orders and clears selection from cart", func(t *testing.T) {
		orders, err := orderSvc.Checkout(ctx, user.ID, []uint64{lamp.ID, fridge.ID}, "Dorm 4, Room 12")
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("got %d orders, want 2", len(orders))
		}
		for _, o := range orders {
			if o.Status != model.OrderStatusPending {
				t.Fatalf("order %d status=%s want pending", o.ID, o.Status)
			}
			if o.ShippingAddress != "Dorm 4, Room 12" {
				t.Fatalf("order %d address=%q", o.ID, o.ShippingAddress)
			}
		}

		items, err := cartSvc.List(ctx, user.ID)
		if err != nil {
			t.Fatalf("list cart: %v", err)
		}
		if len(items) != 1 || items[0].ProductID != kettle.ID {
			t.Fatalf("cart should hold only the unselected product, got %d items", len(items))
		}
	})
}

func TestMarkPaid(t *testing.T) {
	gdb := newTestDB(t)
	cartSvc := NewCartService(repository.NewCartRepository(gdb), repository.NewProductRepository(gdb))
	orderSvc := NewOrderService(gdb)
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	bob := seedUser(t, gdb, "bob", model.RoleUser)
	lamp := seedProduct(t, gdb, "Desk Lamp", 15.50)
	ctx := context.Background()

	if err := cartSvc.Add(ctx, alice.ID, lamp.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	orders, err := orderSvc.Checkout(ctx, alice.ID, []uint64{lamp.ID}, "Dorm 4")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	order := orders[0]

	if err := orderSvc.MarkPaid(ctx, order.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user pay err=%v want ErrForbidden", err)
	}
	if err := orderSvc.MarkPaid(ctx, order.ID, alice.ID); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if err := orderSvc.MarkPaid(ctx, order.ID, alice.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second pay err=%v want ErrAlreadyProcessed", err)
	}

	// paid orders cannot be removed
	if err := orderSvc.Delete(ctx, order.ID, alice.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("delete paid err=%v want ErrValidation", err)
	}
}

func TestCartAddIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	cartSvc := NewCartService(repository.NewCartRepository(gdb), repository.NewProductRepository(gdb))
	user := seedUser(t, gdb, "alice", model.RoleUser)
	lamp := seedProduct(t, gdb, "Desk Lamp", 15.50)
	ctx := context.Background()

	if err := cartSvc.Add(ctx, user.ID, lamp.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cartSvc.Add(ctx, user.ID, lamp.ID); err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	items, err := cartSvc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("cart has %d rows, want 1", len(items))
	}

	if err := cartSvc.Add(ctx, user.ID, 424242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err=%v want ErrNotFound", err)
	}
}
