package models

import "github.com/shopspring/decimal"

// Receipt is a grocery receipt owned by exactly one user.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string

	// OwnerID is the user who uploaded the receipt.
	OwnerID string

	// Title is a human-readable name, e.g. "Receipt 2025-03-25 18:04".
	Title string

	// Items are the line items, in the order they appear on the receipt.
	Items []ReceiptItem

	// Total is the bill amount. When not supplied it is the sum of item prices.
	Total decimal.Decimal

	// GreenScore is the 0-100 score computed when the receipt was stored.
	GreenScore int

	// CreatedAt is the Unix timestamp when the receipt was stored.
	CreatedAt int64
}

// ReceiptItem is a single line on a receipt. Items are immutable once scored.
type ReceiptItem struct {
	Name        string
	Price       decimal.Decimal
	EcoFriendly bool

	// EcoScore is the classifier's confidence (0..1) that the item is eco-friendly.
	// Nil when the upstream producer only supplied the boolean flag.
	EcoScore *float64
}

// SumPrices returns the sum of all item prices.
func SumPrices(items []ReceiptItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
