package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a slot of the machine owned by a seller. Cost is in cents.
type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID        uuid.UUID `gorm:"type:uuid;index;not null" json:"sellerId"`
	ProductName     string    `gorm:"not null" json:"productName"`
	Cost            int64     `gorm:"not null;check:chk_products_cost,cost > 0" json:"cost"`
	AmountAvailable int64     `gorm:"not null;default:0;check:chk_products_amount,amount_available >= 0" json:"amountAvailable"`
	CreatedAt       time.Time `json:"createdDate"`
	UpdatedAt       time.Time `json:"lastModifiedDate"`
}

type CreateProductInput struct {
	ProductName     string `json:"productName"`
	Cost            int64  `json:"cost"`
	AmountAvailable int64  `json:"amountAvailable"`
}

// UpdateProductInput carries a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	ProductName     *string `json:"productName"`
	Cost            *int64  `json:"cost"`
	AmountAvailable *int64  `json:"amountAvailable"`
}
