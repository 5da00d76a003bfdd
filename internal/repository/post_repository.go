package repository

import (
	"context"

	"github.com/minishare/backend/internal/model"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	FindByIDWithDetails(ctx context.Context, id uint64) (*model.Post, error)
	List(ctx context.Context, keyword string, limit, offset int) ([]model.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error)
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)

	FindLike(ctx context.Context, postID, userID uint64) (*model.PostLike, error)
	CreateLike(ctx context.Context, l *model.PostLike) error
	DeleteLike(ctx context.Context, postID, userID uint64) error
	AdjustLikeCount(ctx context.Context, postID uint64, delta int) error

	FindFavorite(ctx context.Context, postID, userID uint64) (*model.PostFavorite, error)
	CreateFavorite(ctx context.Context, f *model.PostFavorite) error
	DeleteFavorite(ctx context.Context, postID, userID uint64) error
	ListFavoritesByUser(ctx context.Context, userID uint64) ([]model.PostFavorite, error)

	CreateComment(ctx context.Context, c *model.Comment) error
	FindCommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	DeleteComment(ctx context.Context, id uint64) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) FindByIDWithDetails(ctx context.Context, id uint64) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Comments.Author").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, keyword string, limit, offset int) ([]model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []model.Post
	err := q.Preload("Author").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&n).Error
	return n, err
}

func (r *postRepository) FindLike(ctx context.Context, postID, userID uint64) (*model.PostLike, error) {
	var l model.PostLike
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *postRepository) CreateLike(ctx context.Context, l *model.PostLike) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *postRepository) DeleteLike(ctx context.Context, postID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostLike{}).Error
}

func (r *postRepository) AdjustLikeCount(ctx context.Context, postID uint64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *postRepository) FindFavorite(ctx context.Context, postID, userID uint64) (*model.PostFavorite, error) {
	var f model.PostFavorite
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *postRepository) CreateFavorite(ctx context.Context, f *model.PostFavorite) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *postRepository) DeleteFavorite(ctx context.Context, postID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostFavorite{}).Error
}

func (r *postRepository) ListFavoritesByUser(ctx context.Context, userID uint64) ([]model.PostFavorite, error) {
	var favs []model.PostFavorite
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favs).Error
	return favs, err
}

func (r *postRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *postRepository) FindCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
