package models

import "github.com/shopspring/decimal"

// Split is a finalized bill split. It is created from a calculator session once the
// session can be submitted.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ReceiptID links the split to the receipt it divides. Empty for ad-hoc bills.
	ReceiptID string

	// OwnerID is the user who created the split and absorbs the unallocated remainder.
	OwnerID string

	Title string

	Total decimal.Decimal

	// OwnerShare is Total minus everything allocated to participants.
	OwnerShare decimal.Decimal

	Participants []SplitParticipant

	// CreatedAt is the Unix timestamp when the split was submitted.
	CreatedAt int64
}

// SplitParticipant is one named friend on a split.
type SplitParticipant struct {
	Name    string
	Amount  decimal.Decimal
	Settled bool
}
