// Package ocr turns receipt images into classified line items and produces
// eco-friendly shopping suggestions.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ecosplit/internal/models"
)

// ErrNoItems is returned when a receipt image yields no line items.
var ErrNoItems = errors.New("no items found on receipt")

// Scanner extracts line items from a receipt image.
type Scanner interface {
	Scan(ctx context.Context, image []byte, mimeType string) ([]models.ReceiptItem, error)
}

// Advisor suggests how to shop more sustainably given past purchases.
type Advisor interface {
	Suggest(ctx context.Context, itemNames []string) (string, error)
}

// scannedItem is one element of the JSON array the model is asked to produce.
type scannedItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	EcoLabel string          `json:"eco_label"`
	EcoScore *float64        `json:"eco_score"`
}

// parseItems decodes the model output into receipt items. The output may be wrapped
// in a Markdown code fence.
func parseItems(text string) ([]models.ReceiptItem, error) {
	text = stripCodeFence(text)

	var scanned []scannedItem
	if err := json.Unmarshal([]byte(text), &scanned); err != nil {
		return nil, fmt.Errorf("decode scanned items: %w", err)
	}
	if len(scanned) == 0 {
		return nil, ErrNoItems
	}

	items := make([]models.ReceiptItem, 0, len(scanned))
	for i, s := range scanned {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("item %d has no name", i)
		}
		if s.Price.IsNegative() {
			return nil, fmt.Errorf("item %q has negative price %s", name, s.Price)
		}
		items = append(items, models.ReceiptItem{
			Name:        name,
			Price:       s.Price.Round(2),
			EcoFriendly: isEcoFriendly(s.EcoLabel, s.EcoScore),
			EcoScore:    s.EcoScore,
		})
	}
	return items, nil
}

// isEcoFriendly reads the label when present and falls back to the score.
func isEcoFriendly(label string, score *float64) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "eco", "eco-friendly", "eco friendly", "green", "yes", "true":
		return true
	case "":
		return score != nil && *score >= 0.5
	default:
		return false
	}
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:] // drop the language tag line
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
