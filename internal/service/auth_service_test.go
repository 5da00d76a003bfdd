package service

import (
	"context"
	"errors"
	"testing"

	"github.com/minishare/backend/internal/auth"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
)

func TestRegisterAndLogin(t *testing.T) {
	gdb := newTestDB(t)
	tokens := auth.NewTokenIssuer("test-secret")
	svc := NewAuthService(repository.NewUserRepository(gdb), tokens)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != model.RoleUser {
		t.Fatalf("role=%s want user", u.Role)
	}
	if u.PasswordHash == "hunter2hunter2" {
		t.Fatalf("password stored in plaintext")
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("token uid=%d want %d", claims.UserID, u.ID)
	}

	if _, _, err := svc.Register(ctx, "alice", "other@example.com", "hunter2hunter2"); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate username err=%v want ErrValidation", err)
	}
	if _, _, err := svc.Register(ctx, "alice2", "alice@example.com", "hunter2hunter2"); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate email err=%v want ErrValidation", err)
	}
	if _, _, err := svc.Register(ctx, "bob", "bob@example.com", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password err=%v want ErrValidation", err)
	}

	if _, _, err := svc.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("bad password err=%v want ErrBadCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "hunter2hunter2"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown user err=%v want ErrBadCredentials", err)
	}
	got, _, err := svc.Login(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned user %d want %d", got.ID, u.ID)
	}
}

func TestLoginLockedAccount(t *testing.T) {
	gdb := newTestDB(t)
	tokens := auth.NewTokenIssuer("test-secret")
	svc := NewAuthService(repository.NewUserRepository(gdb), tokens)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "carol", "carol@example.com", "correcthorse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u.Locked = true
	if err := repository.NewUserRepository(gdb).Update(ctx, u); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, _, err := svc.Login(ctx, "carol", "correcthorse"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("locked login err=%v want ErrForbidden", err)
	}
}
