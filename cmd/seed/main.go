package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/minishare/backend/internal/auth"
	"github.com/minishare/backend/internal/config"
	"github.com/minishare/backend/internal/db"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"gorm.io/gorm"
)

// Seeds an admin account and a small demo catalog. Safe to re-run.
func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	userRepo := repository.NewUserRepository(gdb)
	productRepo := repository.NewProductRepository(gdb)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin12345"
	}

	if _, err := userRepo.FindByUsername(ctx, "admin"); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check admin: %w", err)
		}
		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		admin := &model.User{
			Username:     "admin",
			Email:        "admin@minishare.local",
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}
		log.Printf("created admin user (id=%d)", admin.ID)
	} else {
		log.Printf("admin user already exists; skipping")
	}

	samples := []model.Product{
		{Name: "Desk Lamp", Price: 15.50, ShippingTimeHours: 24, ShippingMethod: model.ShippingMethodExpress, ShippingFee: 2.00},
		{Name: "Used Calculus Textbook", Price: 12.00, ShippingTimeHours: 48, ShippingMethod: model.ShippingMethodMeetup},
		{Name: "Mini Fridge", Price: 60.00, ShippingTimeHours: 72, ShippingMethod: model.ShippingMethodFreeShipping},
	}

	existing, _, err := productRepo.List(ctx, repository.ListProductsFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("catalog already seeded; skipping demo products")
		return nil
	}

	inserted := 0
	for i := range samples {
		desc := fmt.Sprintf("%s - demo listing for the campus marketplace.", samples[i].Name)
		samples[i].Description = &desc
		if err := productRepo.Create(ctx, &samples[i]); err != nil {
			return fmt.Errorf("insert %s: %w", samples[i].Name, err)
		}
		inserted++
	}

	log.Printf("seed complete: inserted=%d demo products", inserted)
	return nil
}
