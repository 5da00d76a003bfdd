package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
	"github.com/minishare/backend/internal/storage"
	"gorm.io/gorm"
)

const maxPostImages = 9

type PostService interface {
	Create(ctx context.Context, authorID uint64, title, content string, images []ImageUpload) (*model.Post, error)
	Get(ctx context.Context, id uint64) (*model.Post, error)
	List(ctx context.Context, keyword string, limit, offset int) ([]model.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error)
	Delete(ctx context.Context, postID, userID uint64, isAdmin bool) error

	ToggleLike(ctx context.Context, postID, userID uint64) (liked bool, likeCount int, err error)
	IsLiked(ctx context.Context, postID, userID uint64) (bool, error)

	ToggleFavorite(ctx context.Context, postID, userID uint64) (bool, error)
	IsFavorite(ctx context.Context, postID, userID uint64) (bool, error)
	ListFavorites(ctx context.Context, userID uint64) ([]model.PostFavorite, error)

	AddComment(ctx context.Context, postID, authorID uint64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID uint64, isAdmin bool) error
}

type postService struct {
	db    *gorm.DB
	posts repository.PostRepository
	store storage.Service
}

func NewPostService(db *gorm.DB, posts repository.PostRepository, store storage.Service) PostService {
	return &postService{db: db, posts: posts, store: store}
}

func (s *postService) Create(ctx context.Context, authorID uint64, title, content string, images []ImageUpload) (*model.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || len(title) > 100 {
		return nil, fmt.Errorf("%w: title is required and must not exceed 100 characters", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if len(images) > maxPostImages {
		return nil, fmt.Errorf("%w: at most %d images allowed", ErrValidation, maxPostImages)
	}
	for _, img := range images {
		if _, err := storage.Validate(img.Filename, int64(len(img.Data))); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, img.Filename, err)
		}
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		u, err := s.store.Upload(ctx, img.Filename, img.Data)
		if err != nil {
			for _, prev := range urls {
				_ = s.store.Delete(ctx, prev)
			}
			return nil, fmt.Errorf("upload %s: %w", img.Filename, err)
		}
		urls = append(urls, u)
	}

	post := &model.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	for i, u := range urls {
		post.Images = append(post.Images, model.PostImage{ImageURL: u, SortOrder: i})
	}
	if err := s.posts.Create(ctx, post); err != nil {
		for _, u := range urls {
			_ = s.store.Delete(ctx, u)
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id uint64) (*model.Post, error) {
	p, err := s.posts.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *postService) List(ctx context.Context, keyword string, limit, offset int) ([]model.Post, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.List(ctx, strings.TrimSpace(keyword), limit, offset)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func (s *postService) Delete(ctx context.Context, postID, userID uint64, isAdmin bool) error {
	post, err := s.posts.FindByIDWithDetails(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isAdmin && post.AuthorID != userID {
		return ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, postID).Error
	})
	if err != nil {
		return err
	}

	// Post images are never shared, so their files can go too.
	for _, img := range post.Images {
		_ = s.store.Delete(ctx, img.ImageURL)
	}
	return nil
}

// ToggleLike flips the caller's like and keeps like_count consistent with the
// post_likes rows in the same transaction.
func (s *postService) ToggleLike(ctx context.Context, postID, userID uint64) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		post, err := posts.FindByID(ctx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		delta := 0
		_, err = posts.FindLike(ctx, postID, userID)
		switch {
		case err == nil:
			if err := posts.DeleteLike(ctx, postID, userID); err != nil {
				return err
			}
			liked = false
			delta = -1
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := posts.CreateLike(ctx, &model.PostLike{PostID: postID, UserID: userID}); err != nil {
				return err
			}
			liked = true
			delta = 1
		default:
			return err
		}
		if err := posts.AdjustLikeCount(ctx, postID, delta); err != nil {
			return err
		}
		// Report the count this toggle produced, not whatever a later
		// concurrent toggle may have left behind.
		count = post.LikeCount + delta
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *postService) IsLiked(ctx context.Context, postID, userID uint64) (bool, error) {
	_, err := s.posts.FindLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *postService) ToggleFavorite(ctx context.Context, postID, userID uint64) (bool, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	_, err := s.posts.FindFavorite(ctx, postID, userID)
	switch {
	case err == nil:
		if err := s.posts.DeleteFavorite(ctx, postID, userID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.posts.CreateFavorite(ctx, &model.PostFavorite{PostID: postID, UserID: userID}); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (s *postService) IsFavorite(ctx context.Context, postID, userID uint64) (bool, error) {
	_, err := s.posts.FindFavorite(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *postService) ListFavorites(ctx context.Context, userID uint64) ([]model.PostFavorite, error) {
	return s.posts.ListFavoritesByUser(ctx, userID)
}

func (s *postService) AddComment(ctx context.Context, postID, authorID uint64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrValidation)
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.posts.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *postService) DeleteComment(ctx context.Context, commentID, userID uint64, isAdmin bool) error {
	c, err := s.posts.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isAdmin && c.AuthorID != userID {
		return ErrForbidden
	}
	return s.posts.DeleteComment(ctx, commentID)
}
