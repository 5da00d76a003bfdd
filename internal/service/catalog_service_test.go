package service

import (
	"context"
	"errors"
	"testing"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
)

func TestCatalogComments(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, repository.NewProductRepository(gdb))
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	bob := seedUser(t, gdb, "bob", model.RoleUser)
	lamp := seedProduct(t, gdb, "Desk Lamp", 15.50)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.AddComment(ctx, lamp.ID, alice.ID, rating, "nice"); !errors.Is(err, ErrValidation) {
			t.Fatalf("rating %d err=%v want ErrValidation", rating, err)
		}
	}
	if _, err := svc.AddComment(ctx, lamp.ID, alice.ID, 5, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank content err=%v want ErrValidation", err)
	}

	comment, err := svc.AddComment(ctx, lamp.ID, alice.ID, 5, "Bright and sturdy.")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.DeleteComment(ctx, comment.ID, bob.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user delete err=%v want ErrForbidden", err)
	}
	if err := svc.DeleteComment(ctx, comment.ID, bob.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestCatalogFavoriteToggle(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, repository.NewProductRepository(gdb))
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	lamp := seedProduct(t, gdb, "Desk Lamp", 15.50)
	ctx := context.Background()

	on, err := svc.ToggleFavorite(ctx, lamp.ID, alice.ID)
	if err != nil || !on {
		t.Fatalf("toggle on=%v err=%v", on, err)
	}
	is, err := svc.IsFavorite(ctx, lamp.ID, alice.ID)
	if err != nil || !is {
		t.Fatalf("isFavorite=%v err=%v", is, err)
	}
	on, err = svc.ToggleFavorite(ctx, lamp.ID, alice.ID)
	if err != nil || on {
		t.Fatalf("toggle off=%v err=%v", on, err)
	}

	if _, err := svc.ToggleFavorite(ctx, 9999, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err=%v want ErrNotFound", err)
	}
}

func TestCatalogDeleteCascades(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, repository.NewProductRepository(gdb))
	cartSvc := NewCartService(repository.NewCartRepository(gdb), repository.NewProductRepository(gdb))
	alice := seedUser(t, gdb, "alice", model.RoleUser)
	lamp := seedProduct(t, gdb, "Desk Lamp", 15.50)
	ctx := context.Background()

	if _, err := svc.AddComment(ctx, lamp.ID, alice.ID, 4, "Good value."); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := svc.ToggleFavorite(ctx, lamp.ID, alice.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if err := cartSvc.Add(ctx, alice.ID, lamp.ID); err != nil {
		t.Fatalf("cart: %v", err)
	}

	if err := svc.Delete(ctx, lamp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, lamp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err=%v want ErrNotFound", err)
	}

	var comments, favorites, cartRows int64
	gdb.Model(&model.ProductComment{}).Count(&comments)
	gdb.Model(&model.ProductFavorite{}).Count(&favorites)
	gdb.Model(&model.CartItem{}).Count(&cartRows)
	if comments != 0 || favorites != 0 || cartRows != 0 {
		t.Fatalf("leftover rows: comments=%d favorites=%d cart=%d", comments, favorites, cartRows)
	}
}
