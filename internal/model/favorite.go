package model

import "time"

type PostLike struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    uint64    `gorm:"column:post_id;not null;uniqueIndex:uk_post_likes_post_user"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_post_likes_post_user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type PostFavorite struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    uint64    `gorm:"column:post_id;not null;uniqueIndex:uk_post_favorites_post_user"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_post_favorites_post_user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Post *Post `gorm:"foreignKey:PostID"`
}

func (PostFavorite) TableName() string {
	return "post_favorites"
}

type ProductFavorite struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:uk_product_favorites_product_user"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_product_favorites_product_user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (ProductFavorite) TableName() string {
	return "product_favorites"
}
