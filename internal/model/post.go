package model

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	AuthorID  uint64    `gorm:"column:author_id;not null;index:idx_posts_author_id"`
	LikeCount int       `gorm:"column:like_count;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Author   *User       `gorm:"foreignKey:AuthorID"`
	Images   []PostImage `gorm:"foreignKey:PostID"`
	Comments []Comment   `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}
