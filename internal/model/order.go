package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

type Order struct {
	ID              uint64      `gorm:"primaryKey;autoIncrement"`
	UserID          uint64      `gorm:"column:user_id;not null;index:idx_orders_user_id"`
	ProductID       uint64      `gorm:"column:product_id;not null;index:idx_orders_product_id"`
	Status          OrderStatus `gorm:"size:16;not null;default:pending"`
	ShippingAddress string      `gorm:"column:shipping_address;size:255;not null"`
	CreatedAt       time.Time   `gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Order) TableName() string {
	return "orders"
}
