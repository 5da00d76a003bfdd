package model

import "time"

// CartItem keys a product to a user's cart. One row per (user, product).
type CartItem struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_cart_items_user_product"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:uk_cart_items_user_product"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
