package model

import "time"

type ProductRequestStatus string

const (
	RequestStatusPending  ProductRequestStatus = "pending"
	RequestStatusApproved ProductRequestStatus = "approved"
	RequestStatusRejected ProductRequestStatus = "rejected"
)

// ProductRequest is a listing submission awaiting admin review. A non-nil
// OriginalProductID marks it as an edit request against an existing product.
type ProductRequest struct {
	ID                uint64               `gorm:"primaryKey;autoIncrement"`
	Name              string               `gorm:"size:100;not null"`
	Price             float64              `gorm:"type:decimal(10,2);not null"`
	Description       *string              `gorm:"type:text"`
	ShippingTimeHours int                  `gorm:"column:shipping_time_hours;not null;default:24"`
	ShippingMethod    ShippingMethod       `gorm:"column:shipping_method;size:32;not null;default:express"`
	ShippingFee       float64              `gorm:"column:shipping_fee;type:decimal(10,2);not null;default:0"`
	Status            ProductRequestStatus `gorm:"size:16;not null;default:pending;index:idx_product_requests_status"`
	ReviewComment     *string              `gorm:"column:review_comment;type:text"`
	RequestedByID     uint64               `gorm:"column:requested_by_id;not null;index:idx_product_requests_requested_by"`
	ReviewedByID      *uint64              `gorm:"column:reviewed_by_id"`
	OriginalProductID *uint64              `gorm:"column:original_product_id"`
	// CreatedProductID records which product an approved new-listing request
	// materialized, so product ownership stays traceable to its requester.
	CreatedProductID *uint64    `gorm:"column:created_product_id;index:idx_product_requests_created_product"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	ReviewedAt       *time.Time `gorm:"column:reviewed_at"`

	RequestedBy     *User          `gorm:"foreignKey:RequestedByID"`
	ReviewedBy      *User          `gorm:"foreignKey:ReviewedByID"`
	OriginalProduct *Product       `gorm:"foreignKey:OriginalProductID"`
	Images          []ProductImage `gorm:"foreignKey:ProductRequestID"`
}

func (ProductRequest) TableName() string {
	return "product_requests"
}
