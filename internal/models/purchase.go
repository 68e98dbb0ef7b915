package models

import "github.com/google/uuid"

// ProductDetails is the snapshot of the product returned with a purchase.
type ProductDetails struct {
	ProductID    uuid.UUID `json:"productId"`
	ProductName  string    `json:"productName"`
	Price        int64     `json:"price"`
	AmountBought int64     `json:"amountBought"`
}

// PurchaseResult is built fresh for every purchase and never persisted.
// Change is the buyer's remaining deposit, not a coin breakdown.
type PurchaseResult struct {
	AmountSpent int64          `json:"amountSpent"`
	Product     ProductDetails `json:"product"`
	Change      int64          `json:"change"`
}
