package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minishare/backend/internal/auth"
	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"gorm.io/gorm"
)

// ProfileUpdate carries the self-service profile fields. Nil means unchanged.
type ProfileUpdate struct {
	AvatarURL *string
	Bio       *string
	Gender    *model.Gender
	Birthday  *time.Time
	Major     *string
	School    *string
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	Users           int64
	Products        int64
	Posts           int64
	PendingRequests int64
}

type UserService interface {
	Get(ctx context.Context, id uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, upd ProfileUpdate) (*model.User, error)
	List(ctx context.Context, search string, limit, offset int) ([]model.User, int64, error)
	SetRole(ctx context.Context, id uint64, role model.Role) error
	ToggleLock(ctx context.Context, id uint64) (bool, error)
	ChangePassword(ctx context.Context, id uint64, newPassword string) error
	Delete(ctx context.Context, id uint64) error
	Stats(ctx context.Context) (*AdminStats, error)
}

type userService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	posts    repository.PostRepository
	requests repository.ProductRequestRepository
}

func NewUserService(users repository.UserRepository, products repository.ProductRepository, posts repository.PostRepository, requests repository.ProductRequestRepository) UserService {
	return &userService{users: users, products: products, posts: posts, requests: requests}
}

func (s *userService) Get(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint64, upd ProfileUpdate) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = upd.AvatarURL
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.Gender != nil {
		switch *upd.Gender {
		case model.GenderUnknown, model.GenderMale, model.GenderFemale:
			u.Gender = *upd.Gender
		default:
			return nil, fmt.Errorf("%w: unknown gender %q", ErrValidation, *upd.Gender)
		}
	}
	if upd.Birthday != nil {
		u.Birthday = upd.Birthday
	}
	if upd.Major != nil {
		u.Major = upd.Major
	}
	if upd.School != nil {
		u.School = upd.School
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, search string, limit, offset int) ([]model.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, strings.TrimSpace(search), limit, offset)
}

func (s *userService) SetRole(ctx context.Context, id uint64, role model.Role) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	u.Role = role
	return s.users.Update(ctx, u)
}

func (s *userService) ToggleLock(ctx context.Context, id uint64) (bool, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	u.Locked = !u.Locked
	if err := s.users.Update(ctx, u); err != nil {
		return false, err
	}
	return u.Locked, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uint64, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}

func (s *userService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *userService) Stats(ctx context.Context) (*AdminStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.requests.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStats{Users: users, Products: products, Posts: posts, PendingRequests: pending}, nil
}
