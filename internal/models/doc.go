// Package models defines the core domain models for EcoSplit.
//
// # Models
//
//   - User: registered account that owns receipts and splits
//   - Receipt / ReceiptItem: a scanned or manually entered grocery receipt
//   - GreenScore: a user's score for one ISO week (Period)
//   - Split / SplitParticipant: a finalized bill split, optionally linked to a receipt
//
// Split sessions that are still being edited live in the calculator package and are
// only turned into a Split once they can be submitted.
//
// # Design Principles
//
//  1. **Decimal money**: amounts use shopspring/decimal, never float64
//  2. **Avoid circular references**: use ID strings instead of pointers for relationships
//  3. **Storage-agnostic**: no SQL or JSON tags here; storage and services map fields explicitly
package models
