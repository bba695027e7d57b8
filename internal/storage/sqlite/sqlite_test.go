package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, "", username+"@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func ecoScore(v float64) *float64 { return &v }

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	t.Run("GetUserByUsername", func(t *testing.T) {
		got, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if diff := cmp.Diff(alice, got); diff != "" {
			t.Errorf("user mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		dup := models.NewUser("alice", "", "", "hash")
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("CreateUser error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID error = %v, want ErrNotFound", err)
		}
		_, err = store.GetUserByUsername(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByUsername error = %v, want ErrNotFound", err)
		}
	})

	t.Run("GetUsersByIDs skips unknown IDs", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, alice.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("got %d users, want 2", len(users))
		}
		if users[bob.ID].Username != "bob" {
			t.Errorf("users[bob].Username = %q, want bob", users[bob.ID].Username)
		}
	})
}

func TestReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice")

	t.Run("CreateReceipt generates ID and title", func(t *testing.T) {
		receipt := &models.Receipt{
			OwnerID: owner.ID,
			Total:   decimal.RequireFromString("3.50"),
		}
		if err := store.CreateReceipt(ctx, receipt); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		if receipt.ID == "" {
			t.Error("Expected receipt ID to be generated")
		}
		if !strings.HasPrefix(receipt.Title, "Receipt ") {
			t.Errorf("Title = %q, want generated title", receipt.Title)
		}
		if receipt.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetReceipt round-trips items in order", func(t *testing.T) {
		original := &models.Receipt{
			OwnerID:    owner.ID,
			Title:      "Farmers market",
			Total:      decimal.RequireFromString("12.75"),
			GreenScore: 67,
			Items: []models.ReceiptItem{
				{Name: "Oat milk", Price: decimal.RequireFromString("3.25"), EcoFriendly: true, EcoScore: ecoScore(0.9)},
				{Name: "Beef", Price: decimal.RequireFromString("8.00")},
				{Name: "Apples", Price: decimal.RequireFromString("1.50"), EcoFriendly: true},
			},
		}
		if err := store.CreateReceipt(ctx, original); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}

		got, err := store.GetReceipt(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if diff := cmp.Diff(original, got); diff != "" {
			t.Errorf("receipt mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GetReceipt returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetReceipt(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetReceipt error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListReceiptsByOwner is newest first", func(t *testing.T) {
		other := createTestUser(t, store, "carol")
		for i, title := range []string{"first", "second", "third"} {
			r := &models.Receipt{OwnerID: other.ID, Title: title, Total: decimal.Zero, CreatedAt: int64(1000 + i)}
			if err := store.CreateReceipt(ctx, r); err != nil {
				t.Fatalf("CreateReceipt failed: %v", err)
			}
		}

		receipts, err := store.ListReceiptsByOwner(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListReceiptsByOwner failed: %v", err)
		}
		var titles []string
		for _, r := range receipts {
			titles = append(titles, r.Title)
		}
		if diff := cmp.Diff([]string{"third", "second", "first"}, titles); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("receipt owner must exist", func(t *testing.T) {
		r := &models.Receipt{OwnerID: "ghost", Total: decimal.Zero}
		if err := store.CreateReceipt(ctx, r); err == nil {
			t.Error("Expected foreign key error, got nil")
		}
	})
}

func TestGreenScores(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")
	week3 := models.Period{Week: 3, Year: 2025}
	week4 := models.Period{Week: 4, Year: 2025}

	t.Run("upsert twice leaves one row with the second score", func(t *testing.T) {
		first, err := store.UpsertGreenScore(ctx, alice.ID, week3, 40)
		if err != nil {
			t.Fatalf("UpsertGreenScore failed: %v", err)
		}
		second, err := store.UpsertGreenScore(ctx, alice.ID, week3, 75)
		if err != nil {
			t.Fatalf("UpsertGreenScore failed: %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("ID changed on update: %d -> %d", first.ID, second.ID)
		}

		scores, err := store.ListGreenScores(ctx, &week3)
		if err != nil {
			t.Fatalf("ListGreenScores failed: %v", err)
		}
		if len(scores) != 1 {
			t.Fatalf("got %d rows, want 1", len(scores))
		}
		if scores[0].Score != 75 {
			t.Errorf("Score = %d, want 75", scores[0].Score)
		}
	})

	t.Run("ListGreenScores filters by period in creation order", func(t *testing.T) {
		mustUpsert(t, store, bob.ID, week3, 90)
		mustUpsert(t, store, alice.ID, week4, 10)

		scores, err := store.ListGreenScores(ctx, &week3)
		if err != nil {
			t.Fatalf("ListGreenScores failed: %v", err)
		}
		var users []string
		for _, s := range scores {
			users = append(users, s.UserID)
		}
		if diff := cmp.Diff([]string{alice.ID, bob.ID}, users); diff != "" {
			t.Errorf("users mismatch (-want +got):\n%s", diff)
		}

		all, err := store.ListGreenScores(ctx, nil)
		if err != nil {
			t.Fatalf("ListGreenScores failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("got %d rows across periods, want 3", len(all))
		}
	})

	t.Run("GetGreenScore", func(t *testing.T) {
		gs, err := store.GetGreenScore(ctx, alice.ID, week4)
		if err != nil {
			t.Fatalf("GetGreenScore failed: %v", err)
		}
		if gs.Score != 10 || gs.Period != week4 {
			t.Errorf("GetGreenScore = %+v, want score 10 in %s", gs, week4)
		}

		_, err = store.GetGreenScore(ctx, bob.ID, week4)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGreenScore error = %v, want ErrNotFound", err)
		}
	})

	t.Run("score outside 0..100 is rejected", func(t *testing.T) {
		if _, err := store.UpsertGreenScore(ctx, bob.ID, week4, 101); err == nil {
			t.Error("Expected constraint error, got nil")
		}
	})

	t.Run("concurrent upserts on one key keep one row", func(t *testing.T) {
		week5 := models.Period{Week: 5, Year: 2025}
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(score int) {
				defer wg.Done()
				if _, err := store.UpsertGreenScore(ctx, bob.ID, week5, score); err != nil {
					t.Errorf("UpsertGreenScore failed: %v", err)
				}
			}(i * 10)
		}
		wg.Wait()

		scores, err := store.ListGreenScores(ctx, &week5)
		if err != nil {
			t.Fatalf("ListGreenScores failed: %v", err)
		}
		if len(scores) != 1 {
			t.Errorf("got %d rows, want 1", len(scores))
		}
	})
}

func mustUpsert(t *testing.T, store *SQLiteStore, userID string, period models.Period, score int) {
	t.Helper()
	if _, err := store.UpsertGreenScore(context.Background(), userID, period, score); err != nil {
		t.Fatalf("UpsertGreenScore failed: %v", err)
	}
}

func TestSplits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice")

	receipt := &models.Receipt{OwnerID: owner.ID, Title: "Groceries", Total: decimal.RequireFromString("30.00")}
	if err := store.CreateReceipt(ctx, receipt); err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}

	split := &models.Split{
		ReceiptID:  receipt.ID,
		OwnerID:    owner.ID,
		Title:      "Groceries",
		Total:      decimal.RequireFromString("30.00"),
		OwnerShare: decimal.RequireFromString("10.00"),
		Participants: []models.SplitParticipant{
			{Name: "Bob", Amount: decimal.RequireFromString("10.00"), Settled: true},
			{Name: "Carol", Amount: decimal.RequireFromString("10.00")},
		},
	}
	if err := store.CreateSplit(ctx, split); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	adHoc := &models.Split{
		OwnerID:    owner.ID,
		Title:      "Taxi",
		Total:      decimal.RequireFromString("12.00"),
		OwnerShare: decimal.RequireFromString("6.00"),
		Participants: []models.SplitParticipant{
			{Name: "Bob", Amount: decimal.RequireFromString("6.00")},
		},
		CreatedAt: split.CreatedAt + 10,
	}
	if err := store.CreateSplit(ctx, adHoc); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	splits, err := store.ListSplitsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListSplitsByOwner failed: %v", err)
	}
	if diff := cmp.Diff([]*models.Split{adHoc, split}, splits); diff != "" {
		t.Errorf("splits mismatch (-want +got):\n%s", diff)
	}
}

func TestToCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"12.34", 1234},
		{"0.005", 1},
		{"3.333", 333},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := toCents(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("toCents(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
