package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/internal/ocr"
	"github.com/mmynk/ecosplit/internal/storage"
	"github.com/mmynk/ecosplit/pkg/api"
	"github.com/mmynk/ecosplit/pkg/api/apiconnect"
)

// SuggestionService asks an ocr.Advisor for shopping tips.
type SuggestionService struct {
	store   storage.ReceiptStore
	advisor ocr.Advisor
	logger  *slog.Logger
}

var _ apiconnect.SuggestionServiceHandler = (*SuggestionService)(nil)

// NewSuggestionService creates a SuggestionService. A nil advisor makes every call
// return CodeUnimplemented.
func NewSuggestionService(store storage.ReceiptStore, advisor ocr.Advisor, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{store: store, advisor: advisor, logger: logger}
}

// GetSuggestion suggests greener alternatives for a receipt's items or a list of names.
func (s *SuggestionService) GetSuggestion(ctx context.Context, req *connect.Request[api.GetSuggestionRequest]) (*connect.Response[api.GetSuggestionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.advisor == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("suggestions are not configured"))
	}

	var names []string
	for _, n := range req.Msg.ItemNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if req.Msg.ReceiptID != "" {
		receipt, err := ownedReceipt(ctx, s.store, userID, req.Msg.ReceiptID)
		if err != nil {
			return nil, err
		}
		for _, item := range receipt.Items {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receipt_id or item_names is required"))
	}

	suggestion, err := s.advisor.Suggest(ctx, names)
	if err != nil {
		s.logger.Error("Suggestion failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return connect.NewResponse(&api.GetSuggestionResponse{Suggestion: suggestion}), nil
}
