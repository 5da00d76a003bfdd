package model

import "time"

// ProductImage is owned by exactly one of a product (after approval) or a
// product request (while staged). The other foreign key stays null.
type ProductImage struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	ProductID        *uint64   `gorm:"column:product_id;index:idx_product_images_product_id"`
	ProductRequestID *uint64   `gorm:"column:product_request_id;index:idx_product_images_request_id"`
	ImageURL         string    `gorm:"column:image_url;size:512;not null"`
	IsMain           bool      `gorm:"column:is_main;not null;default:false"`
	SortOrder        int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
