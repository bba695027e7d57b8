package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/ecosplit/internal/cache"
	"github.com/mmynk/ecosplit/internal/calculator"
	"github.com/mmynk/ecosplit/internal/events"
	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/ocr"
	"github.com/mmynk/ecosplit/internal/storage"
	"github.com/mmynk/ecosplit/pkg/api"
	"github.com/mmynk/ecosplit/pkg/api/apiconnect"
)

const (
	// MaxImageBytes bounds ScanReceipt uploads.
	MaxImageBytes = 10 << 20

	// MaxReceiptRequestBytes bounds ReceiptService request bodies: a base64 encoded image
	// plus room for the rest of the JSON message. Pass it to the handler with
	// connect.WithReadMaxBytes.
	MaxReceiptRequestBytes = MaxImageBytes*4/3 + 64<<10
)

// ReceiptService stores receipts, scores them and keeps the owner's weekly score current.
type ReceiptService struct {
	store       storage.Store
	scanner     ocr.Scanner
	leaderboard cache.LeaderboardCache
	publisher   events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

var _ apiconnect.ReceiptServiceHandler = (*ReceiptService)(nil)

// NewReceiptService creates a ReceiptService. scanner may be nil, in which case
// ScanReceipt is unimplemented; nil leaderboard and publisher disable caching and events.
func NewReceiptService(store storage.Store, scanner ocr.Scanner, leaderboard cache.LeaderboardCache, publisher events.Publisher, logger *slog.Logger) *ReceiptService {
	if leaderboard == nil {
		leaderboard = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ReceiptService{
		store:       store,
		scanner:     scanner,
		leaderboard: leaderboard,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateReceipt scores the given items and stores the receipt.
func (s *ReceiptService) CreateReceipt(ctx context.Context, req *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := fromAPIItems(req.Msg.Items)
	if err != nil {
		return nil, toConnectError(err)
	}

	receipt, periodScore, err := s.storeReceipt(ctx, userID, req.Msg.Title, items, req.Msg.Total)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.CreateReceiptResponse{
		Receipt:     toAPIReceipt(receipt),
		PeriodScore: toAPIGreenScore(periodScore),
	}), nil
}

// ScanReceipt extracts items from an image and then stores them like CreateReceipt.
func (s *ReceiptService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.scanner == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("receipt scanning is not configured"))
	}
	if len(req.Msg.Image) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("image is required"))
	}
	if len(req.Msg.Image) > MaxImageBytes {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("image exceeds %d bytes", MaxImageBytes))
	}

	items, err := s.scanner.Scan(ctx, req.Msg.Image, req.Msg.MimeType)
	if errors.Is(err, ocr.ErrNoItems) {
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}
	if err != nil {
		s.logger.Error("Receipt scan failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	s.logger.Debug("Receipt scanned", "user_id", userID, "items", len(items))

	receipt, periodScore, err := s.storeReceipt(ctx, userID, req.Msg.Title, items, nil)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.ScanReceiptResponse{
		Receipt:     toAPIReceipt(receipt),
		PeriodScore: toAPIGreenScore(periodScore),
	}), nil
}

// storeReceipt scores and persists a receipt, then records the score for the current
// week. The new receipt's score replaces any earlier score of that week.
func (s *ReceiptService) storeReceipt(ctx context.Context, userID, title string, items []models.ReceiptItem, total *decimal.Decimal) (*models.Receipt, *models.GreenScore, error) {
	receipt := &models.Receipt{
		OwnerID:    userID,
		Title:      strings.TrimSpace(title),
		Items:      items,
		Total:      models.SumPrices(items),
		GreenScore: calculator.ScoreReceipt(items),
		CreatedAt:  s.now().Unix(),
	}
	if total != nil {
		if err := calculator.ValidateAmount("total", *total); err != nil {
			return nil, nil, toConnectError(err)
		}
		receipt.Total = *total
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		s.logger.Error("Failed to store receipt", "user_id", userID, "error", err)
		return nil, nil, toConnectError(err)
	}

	period := models.PeriodOf(time.Unix(receipt.CreatedAt, 0).UTC())
	periodScore, err := s.store.UpsertGreenScore(ctx, userID, period, receipt.GreenScore)
	if err != nil {
		s.logger.Error("Failed to update green score", "user_id", userID, "period", period.String(), "error", err)
		return nil, nil, toConnectError(err)
	}

	if err := s.leaderboard.Invalidate(ctx, period); err != nil {
		s.logger.Warn("Failed to invalidate leaderboard cache", "period", period.String(), "error", err)
	}
	if err := s.publisher.PublishScoreUpdated(ctx, events.NewScoreUpdated(periodScore, receipt.ID)); err != nil {
		s.logger.Warn("Failed to publish score update", "user_id", userID, "error", err)
	}

	s.logger.Info("Receipt stored",
		"receipt_id", receipt.ID,
		"user_id", userID,
		"items", len(items),
		"green_score", receipt.GreenScore,
		"period", period.String(),
	)
	return receipt, periodScore, nil
}

// ListReceipts returns the caller's receipts, newest first.
func (s *ReceiptService) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	receipts, err := s.store.ListReceiptsByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list receipts", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Receipt, len(receipts))
	for i, r := range receipts {
		out[i] = toAPIReceipt(r)
	}
	return connect.NewResponse(&api.ListReceiptsResponse{Receipts: out}), nil
}

// GetReceipt returns one of the caller's receipts. Receipts of other users are
// reported as not found.
func (s *ReceiptService) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ReceiptID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receipt_id is required"))
	}

	receipt, err := ownedReceipt(ctx, s.store, userID, req.Msg.ReceiptID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetReceiptResponse{Receipt: toAPIReceipt(receipt)}), nil
}

// ownedReceipt loads a receipt and checks that userID owns it.
func ownedReceipt(ctx context.Context, store storage.ReceiptStore, userID, receiptID string) (*models.Receipt, error) {
	receipt, err := store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if receipt.OwnerID != userID {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound))
	}
	return receipt, nil
}
