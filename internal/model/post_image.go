package model

import "time"

type PostImage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    uint64    `gorm:"column:post_id;not null;index:idx_post_images_post_id"`
	ImageURL  string    `gorm:"column:image_url;size:512;not null"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PostImage) TableName() string {
	return "post_images"
}
