package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
	"github.com/mmynk/ecosplit/pkg/api"
	"github.com/mmynk/ecosplit/pkg/api/apiconnect"
)

// SplitService implements the Connect SplitService.
type SplitService struct {
	store  storage.Store
	logger *slog.Logger
}

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store, logger *slog.Logger) *SplitService {
	return &SplitService{store: store, logger: logger}
}

// CalculateSplit evaluates a split without storing it. In even mode every participant
// is assigned the even share; in manual mode the request amounts are kept.
func (s *SplitService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	session, err := buildSession(req.Msg.Total, req.Msg.Participants)
	if err != nil {
		return nil, toConnectError(err)
	}

	switch req.Msg.Mode {
	case api.SplitModeEven:
		if err := session.SplitEvenly(); err != nil {
			return nil, toConnectError(err)
		}
	case api.SplitModeManual, "":
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown split mode %q", req.Msg.Mode))
	}

	s.logger.Debug("Split calculated",
		"mode", req.Msg.Mode,
		"participants", len(session.Participants),
		"remaining", session.Remaining().String(),
	)

	return connect.NewResponse(&api.CalculateSplitResponse{
		Participants: toAPIParticipants(session.Participants),
		Allocated:    session.Allocated(),
		Remaining:    session.Remaining(),
		OwnerShare:   session.OwnerShare(),
		Status:       string(session.Status()),
		CanSubmit:    session.CanSubmit(),
	}), nil
}

// SubmitSplit finalizes a split. It is rejected unless something is allocated and
// the allocations do not exceed the total.
func (s *SplitService) SubmitSplit(ctx context.Context, req *connect.Request[api.SubmitSplitRequest]) (*connect.Response[api.SubmitSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Msg.Title)
	total := req.Msg.Total
	if req.Msg.ReceiptID != "" {
		receipt, err := ownedReceipt(ctx, s.store, userID, req.Msg.ReceiptID)
		if err != nil {
			return nil, err
		}
		if title == "" {
			title = receipt.Title
		}
		if total.IsZero() {
			total = receipt.Total
		}
	}
	if title == "" {
		title = "Split"
	}

	session, err := buildSession(total, req.Msg.Participants)
	if err != nil {
		return nil, toConnectError(err)
	}
	if len(session.Participants) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("at least one participant is required"))
	}
	if !session.CanSubmit() {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("split cannot be submitted: status %s, allocated %s of %s",
				session.Status(), session.Allocated(), session.Total))
	}

	split := &models.Split{
		ReceiptID:  req.Msg.ReceiptID,
		OwnerID:    userID,
		Title:      title,
		Total:      session.Total,
		OwnerShare: session.OwnerShare(),
	}
	for _, p := range session.Participants {
		split.Participants = append(split.Participants, models.SplitParticipant{
			Name:    p.Name,
			Amount:  p.Amount,
			Settled: p.Settled,
		})
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		s.logger.Error("Failed to store split", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Split submitted",
		"split_id", split.ID,
		"user_id", userID,
		"participants", len(split.Participants),
		"owner_share", split.OwnerShare.String(),
	)
	return connect.NewResponse(&api.SubmitSplitResponse{Split: toAPISplit(split)}), nil
}

// ListSplits returns the caller's submitted splits, newest first.
func (s *SplitService) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	splits, err := s.store.ListSplitsByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list splits", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Split, len(splits))
	for i, sp := range splits {
		out[i] = toAPISplit(sp)
	}
	return connect.NewResponse(&api.ListSplitsResponse{Splits: out}), nil
}
