package model

import "time"

type ShippingMethod string

const (
	ShippingMethodExpress      ShippingMethod = "express"
	ShippingMethodMeetup       ShippingMethod = "meetup"
	ShippingMethodFreeShipping ShippingMethod = "free_shipping"
)

type Product struct {
	ID                uint64         `gorm:"primaryKey;autoIncrement"`
	Name              string         `gorm:"size:100;not null"`
	Price             float64        `gorm:"type:decimal(10,2);not null"`
	Description       *string        `gorm:"type:text"`
	ShippingTimeHours int            `gorm:"column:shipping_time_hours;not null;default:24"`
	ShippingMethod    ShippingMethod `gorm:"column:shipping_method;size:32;not null;default:express"`
	ShippingFee       float64        `gorm:"column:shipping_fee;type:decimal(10,2);not null;default:0"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`

	Images   []ProductImage   `gorm:"foreignKey:ProductID"`
	Comments []ProductComment `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}
