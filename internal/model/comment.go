package model

import "time"

// Comment is a comment on a post.
type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    uint64    `gorm:"column:post_id;not null;index:idx_comments_post_id"`
	AuthorID  uint64    `gorm:"column:author_id;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Author *User `gorm:"foreignKey:AuthorID"`
}

func (Comment) TableName() string {
	return "comments"
}

// ProductComment is a rated review on a live product.
type ProductComment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;not null;index:idx_product_comments_product_id"`
	AuthorID  uint64    `gorm:"column:author_id;not null"`
	Rating    int       `gorm:"not null;default:5"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Author *User `gorm:"foreignKey:AuthorID"`
}

func (ProductComment) TableName() string {
	return "product_comments"
}
