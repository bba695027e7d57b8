package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/internal/cache"
	"github.com/mmynk/ecosplit/internal/calculator"
	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
	"github.com/mmynk/ecosplit/pkg/api"
	"github.com/mmynk/ecosplit/pkg/api/apiconnect"
)

// maxLeaderboardLimit caps GetLeaderboard page sizes.
const maxLeaderboardLimit = 100

// GreenScoreService serves weekly rankings.
type GreenScoreService struct {
	store       storage.Store
	leaderboard cache.LeaderboardCache
	logger      *slog.Logger
	now         func() time.Time
}

var _ apiconnect.GreenScoreServiceHandler = (*GreenScoreService)(nil)

// NewGreenScoreService creates a GreenScoreService. A nil cache disables caching.
func NewGreenScoreService(store storage.Store, leaderboard cache.LeaderboardCache, logger *slog.Logger) *GreenScoreService {
	if leaderboard == nil {
		leaderboard = cache.Noop{}
	}
	return &GreenScoreService{
		store:       store,
		leaderboard: leaderboard,
		logger:      logger,
		now:         time.Now,
	}
}

// GetLeaderboard returns the top scores of a week with the users' names.
func (s *GreenScoreService) GetLeaderboard(ctx context.Context, req *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	period, err := s.resolvePeriod(req.Msg.Week, req.Msg.Year)
	if err != nil {
		return nil, err
	}
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("limit %d is negative", req.Msg.Limit))
	}
	limit := min(req.Msg.Limit, maxLeaderboardLimit)

	scores, err := s.periodScores(ctx, period)
	if err != nil {
		return nil, err
	}
	top := calculator.TopScores(scores, limit)

	ids := make([]string, len(top))
	for i, gs := range top {
		ids[i] = gs.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load leaderboard users", "period", period.String(), "error", err)
		return nil, toConnectError(err)
	}

	entries := make([]*api.LeaderboardEntry, len(top))
	for i, gs := range top {
		entry := &api.LeaderboardEntry{Rank: i + 1, UserID: gs.UserID, Score: gs.Score}
		if u, ok := users[gs.UserID]; ok {
			entry.Username = u.Username
			entry.DisplayName = u.Name()
		}
		entries[i] = entry
	}

	return connect.NewResponse(&api.GetLeaderboardResponse{
		Week:    period.Week,
		Year:    period.Year,
		Entries: entries,
	}), nil
}

// GetMyScore returns the caller's score, rank and distance to the next rank.
func (s *GreenScoreService) GetMyScore(ctx context.Context, req *connect.Request[api.GetMyScoreRequest]) (*connect.Response[api.GetMyScoreResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	period, err := s.resolvePeriod(req.Msg.Week, req.Msg.Year)
	if err != nil {
		return nil, err
	}

	scores, err := s.periodScores(ctx, period)
	if err != nil {
		return nil, err
	}

	resp := &api.GetMyScoreResponse{
		Week:             period.Week,
		Year:             period.Year,
		Rank:             calculator.RankOf(scores, userID),
		PointsToNextRank: calculator.PointsToNextRank(scores, userID),
		RankedUsers:      len(scores),
	}
	for _, gs := range scores {
		if gs.UserID == userID {
			resp.HasScore = true
			resp.Score = gs.Score
			break
		}
	}
	return connect.NewResponse(resp), nil
}

// resolvePeriod defaults a zero week and year to the current ISO week.
func (s *GreenScoreService) resolvePeriod(week, year int) (models.Period, error) {
	if week == 0 && year == 0 {
		return models.PeriodOf(s.now().UTC()), nil
	}
	period := models.Period{Week: week, Year: year}
	if err := period.Validate(); err != nil {
		return models.Period{}, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return period, nil
}

// periodScores reads the period's scores through the cache.
func (s *GreenScoreService) periodScores(ctx context.Context, period models.Period) ([]models.GreenScore, error) {
	scores, ok, err := s.leaderboard.Get(ctx, period)
	if err != nil {
		s.logger.Warn("Leaderboard cache read failed", "period", period.String(), "error", err)
	}
	if ok {
		return scores, nil
	}

	scores, err = s.store.ListGreenScores(ctx, &period)
	if err != nil {
		s.logger.Error("Failed to list green scores", "period", period.String(), "error", err)
		return nil, toConnectError(err)
	}
	if err := s.leaderboard.Set(ctx, period, scores); err != nil {
		s.logger.Warn("Leaderboard cache write failed", "period", period.String(), "error", err)
	}
	return scores, nil
}
