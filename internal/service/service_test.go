package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/minishare/backend/internal/db"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one in-memory database per test
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// memStore keeps uploads in a map so tests can assert on stored and deleted
// files without touching disk.
type memStore struct {
	mu    sync.Mutex
	seq   int
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Upload(_ context.Context, filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	url := fmt.Sprintf("mem://%d-%s", m.seq, filename)
	m.files[url] = data
	return url, nil
}

func (m *memStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func seedUser(t *testing.T, gdb *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := repository.NewUserRepository(gdb).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedProduct(t *testing.T, gdb *gorm.DB, name string, price float64) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:              name,
		Price:             price,
		ShippingTimeHours: 24,
		ShippingMethod:    model.ShippingMethodExpress,
	}
	if err := repository.NewProductRepository(gdb).Create(context.Background(), p); err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

func pngUpload(name string) ImageUpload {
	return ImageUpload{Filename: name + ".png", Data: []byte("png-bytes-" + name)}
}
