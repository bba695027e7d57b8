// Package memory provides an in-memory implementation of storage.Store.
// It is safe for concurrent use and is intended for tests and local development.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ecosplit/internal/calculator"
	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all records in memory guarded by a single mutex.
type Store struct {
	mu sync.Mutex

	users      map[string]*models.User
	usernames  map[string]string
	receipts   map[string]*models.Receipt
	receiptSeq map[string]int64
	splits     map[string]*models.Split
	splitSeq   map[string]int64

	// greenScores is kept in creation order.
	greenScores []models.GreenScore

	// seq orders receipts and splits that share a CreatedAt second.
	seq int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		usernames:  make(map[string]string),
		receipts:   make(map[string]*models.Receipt),
		receiptSeq: make(map[string]int64),
		splits:     make(map[string]*models.Split),
		splitSeq:   make(map[string]int64),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[user.Username]; ok {
		return fmt.Errorf("username %q: %w", user.Username, storage.ErrAlreadyExists)
	}
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrAlreadyExists)
	}
	u := *user
	s.users[user.ID] = &u
	s.usernames[user.Username] = user.ID
	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	u := *user
	return &u, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			u := *user
			users[id] = &u
		}
	}
	return users, nil
}

func (s *Store) CreateReceipt(_ context.Context, receipt *models.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[receipt.OwnerID]; !ok {
		return fmt.Errorf("receipt owner %s: %w", receipt.OwnerID, storage.ErrNotFound)
	}
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}
	if receipt.Title == "" {
		receipt.Title = fmt.Sprintf("Receipt %s", time.Unix(receipt.CreatedAt, 0).UTC().Format("2006-01-02 15:04"))
	}
	s.seq++
	s.receipts[receipt.ID] = cloneReceipt(receipt)
	s.receiptSeq[receipt.ID] = s.seq
	return nil
}

func (s *Store) GetReceipt(_ context.Context, receiptID string) (*models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, ok := s.receipts[receiptID]
	if !ok {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	return cloneReceipt(receipt), nil
}

func (s *Store) ListReceiptsByOwner(_ context.Context, ownerID string) ([]*models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var receipts []*models.Receipt
	for _, r := range s.receipts {
		if r.OwnerID == ownerID {
			receipts = append(receipts, cloneReceipt(r))
		}
	}
	sort.Slice(receipts, func(i, j int) bool {
		if receipts[i].CreatedAt != receipts[j].CreatedAt {
			return receipts[i].CreatedAt > receipts[j].CreatedAt
		}
		return s.receiptSeq[receipts[i].ID] > s.receiptSeq[receipts[j].ID]
	})
	return receipts, nil
}

// UpsertGreenScore applies calculator.UpsertPeriodScore to the stored collection under
// the store lock, so concurrent writers on one key never create duplicates.
func (s *Store) UpsertGreenScore(_ context.Context, userID string, period models.Period, score int) (*models.GreenScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, updated, err := calculator.UpsertPeriodScore(s.greenScores, userID, period, score)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert green score: %w", err)
	}
	s.greenScores = updated
	return &entry, nil
}

func (s *Store) GetGreenScore(_ context.Context, userID string, period models.Period) (*models.GreenScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, gs := range s.greenScores {
		if gs.UserID == userID && gs.Period == period {
			out := gs
			return &out, nil
		}
	}
	return nil, fmt.Errorf("green score for %s in %s: %w", userID, period, storage.ErrNotFound)
}

func (s *Store) ListGreenScores(_ context.Context, period *models.Period) ([]models.GreenScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if period == nil {
		return slices.Clone(s.greenScores), nil
	}
	return calculator.FilterPeriod(s.greenScores, *period), nil
}

func (s *Store) CreateSplit(_ context.Context, split *models.Split) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}
	s.seq++
	s.splits[split.ID] = cloneSplit(split)
	s.splitSeq[split.ID] = s.seq
	return nil
}

func (s *Store) ListSplitsByOwner(_ context.Context, ownerID string) ([]*models.Split, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var splits []*models.Split
	for _, sp := range s.splits {
		if sp.OwnerID == ownerID {
			splits = append(splits, cloneSplit(sp))
		}
	}
	sort.Slice(splits, func(i, j int) bool {
		if splits[i].CreatedAt != splits[j].CreatedAt {
			return splits[i].CreatedAt > splits[j].CreatedAt
		}
		return s.splitSeq[splits[i].ID] > s.splitSeq[splits[j].ID]
	})
	return splits, nil
}

func cloneReceipt(r *models.Receipt) *models.Receipt {
	out := *r
	if r.Items != nil {
		out.Items = make([]models.ReceiptItem, len(r.Items))
		for i, item := range r.Items {
			out.Items[i] = item
			if item.EcoScore != nil {
				v := *item.EcoScore
				out.Items[i].EcoScore = &v
			}
		}
	}
	return &out
}

func cloneSplit(sp *models.Split) *models.Split {
	out := *sp
	if sp.Participants != nil {
		out.Participants = append([]models.SplitParticipant(nil), sp.Participants...)
	}
	return &out
}
