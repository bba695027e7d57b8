package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name             string
		total            string
		participantCount int
		want             string
		wantErr          bool
	}{
		{name: "three friends plus owner", total: "100.00", participantCount: 3, want: "25.00"},
		{name: "one friend halves the bill", total: "33.00", participantCount: 1, want: "16.50"},
		{name: "rounds half up", total: "0.05", participantCount: 1, want: "0.03"},
		{name: "rounds down below half", total: "10.00", participantCount: 2, want: "3.33"},
		{name: "rounds up above half", total: "20.00", participantCount: 2, want: "6.67"},
		{name: "zero total", total: "0", participantCount: 4, want: "0"},
		{name: "no participants", total: "10.00", participantCount: 0, wantErr: true},
		{name: "negative total", total: "-1.00", participantCount: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitEvenly(d(tt.total), tt.participantCount)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEvenly() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("SplitEvenly(%s, %d) = %s, want %s", tt.total, tt.participantCount, got, tt.want)
			}
		})
	}
}

func TestSplitEvenlyReconstructsTotal(t *testing.T) {
	totals := []string{"0", "0.01", "1.00", "9.99", "33.33", "100.00", "1234.57", "99999.99"}
	for _, total := range totals {
		for n := 1; n <= 12; n++ {
			share, err := SplitEvenly(d(total), n)
			if err != nil {
				t.Fatalf("SplitEvenly(%s, %d): %v", total, n, err)
			}
			if share.IsNegative() {
				t.Errorf("SplitEvenly(%s, %d) = %s, want non-negative", total, n, share)
			}
			shares := decimal.NewFromInt(int64(n + 1))
			drift := share.Mul(shares).Sub(d(total)).Abs()
			bound := shares.Mul(d("0.005"))
			if drift.GreaterThan(bound) {
				t.Errorf("SplitEvenly(%s, %d): %s x %s drifts %s, bound %s", total, n, share, shares, drift, bound)
			}
		}
	}
}

func TestAllocate(t *testing.T) {
	participants := []Participant{
		{ID: "a", Name: "Alice", Amount: decimal.Zero},
		{ID: "b", Name: "Bob", Amount: decimal.Zero},
	}

	if err := Allocate(participants, "b", d("12.50")); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if !participants[1].Amount.Equal(d("12.50")) {
		t.Errorf("Bob amount = %s, want 12.50", participants[1].Amount)
	}

	// Over-allocation is accepted and reported later.
	if err := Allocate(participants, "a", d("500")); err != nil {
		t.Errorf("over-allocation should not be rejected: %v", err)
	}

	if err := Allocate(participants, "a", d("-0.01")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative amount: got %v, want ErrInvalidArgument", err)
	}
	if err := Allocate(participants, "a", d("50.005")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("sub-cent amount: got %v, want ErrInvalidArgument", err)
	}
	if err := Allocate(participants, "zed", d("1")); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("unknown participant: got %v, want ErrParticipantNotFound", err)
	}
}

func TestRemainingAndCanSubmit(t *testing.T) {
	tests := []struct {
		name          string
		total         string
		amounts       []string
		wantRemaining string
		wantStatus    SplitStatus
		wantSubmit    bool
	}{
		{
			name:          "three manual allocations",
			total:         "100.00",
			amounts:       []string{"25.00", "25.00", "25.00"},
			wantRemaining: "25.00",
			wantStatus:    StatusRemaining,
			wantSubmit:    true,
		},
		{
			name:          "fully allocated",
			total:         "60.00",
			amounts:       []string{"30.00", "30.00"},
			wantRemaining: "0",
			wantStatus:    StatusAllocated,
			wantSubmit:    true,
		},
		{
			name:          "overspent",
			total:         "50.00",
			amounts:       []string{"30.00", "30.00"},
			wantRemaining: "-10.00",
			wantStatus:    StatusOverspent,
			wantSubmit:    false,
		},
		{
			name:          "nothing allocated",
			total:         "50.00",
			amounts:       []string{"0", "0"},
			wantRemaining: "50.00",
			wantStatus:    StatusRemaining,
			wantSubmit:    false,
		},
		{
			name:          "zero total nothing allocated",
			total:         "0",
			amounts:       []string{"0"},
			wantRemaining: "0",
			wantStatus:    StatusAllocated,
			wantSubmit:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := make([]Participant, len(tt.amounts))
			for i, a := range tt.amounts {
				participants[i] = Participant{ID: string(rune('a' + i)), Amount: d(a)}
			}
			total := d(tt.total)

			if got := Remaining(total, participants); !got.Equal(d(tt.wantRemaining)) {
				t.Errorf("Remaining() = %s, want %s", got, tt.wantRemaining)
			}
			if got := OwnerShare(total, participants); !got.Equal(d(tt.wantRemaining)) {
				t.Errorf("OwnerShare() = %s, want %s", got, tt.wantRemaining)
			}
			if got := Status(total, participants); got != tt.wantStatus {
				t.Errorf("Status() = %s, want %s", got, tt.wantStatus)
			}
			if got := CanSubmit(total, participants); got != tt.wantSubmit {
				t.Errorf("CanSubmit() = %v, want %v", got, tt.wantSubmit)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0", false},
		{"12", false},
		{"12.3", false},
		{"12.30", false},
		{"12.300", false},
		{"50.005", true},
		{"0.001", true},
		{"-0.01", true},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := ValidateAmount("amount", d(tt.amount))
			if tt.wantErr && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ValidateAmount(%s) = %v, want ErrInvalidArgument", tt.amount, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAmount(%s) = %v, want nil", tt.amount, err)
			}
		})
	}
}

func TestRemainingDecreasesAsAllocationGrows(t *testing.T) {
	total := d("80.00")
	participants := []Participant{{ID: "a"}, {ID: "b"}}
	prev := Remaining(total, participants)
	for _, step := range []string{"0.01", "5", "20", "40", "60", "100"} {
		if err := Allocate(participants, "a", d(step)); err != nil {
			t.Fatalf("Allocate(%s): %v", step, err)
		}
		got := Remaining(total, participants)
		if !got.LessThan(prev) {
			t.Errorf("Remaining after allocating %s = %s, want less than %s", step, got, prev)
		}
		if got.IsNegative() && CanSubmit(total, participants) {
			t.Errorf("CanSubmit true while remaining %s is negative", got)
		}
		prev = got
	}
}

func TestSession(t *testing.T) {
	if _, err := NewSession(d("-5")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NewSession(-5): got %v, want ErrInvalidArgument", err)
	}
	if _, err := NewSession(d("100.001")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NewSession(100.001): got %v, want ErrInvalidArgument", err)
	}

	s, err := NewSession(d("100.00"))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if err := s.SplitEvenly(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SplitEvenly with no participants: got %v, want ErrInvalidArgument", err)
	}

	var ids []string
	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		p, err := s.AddParticipant(name)
		if err != nil {
			t.Fatalf("AddParticipant(%s): %v", name, err)
		}
		ids = append(ids, p.ID)
	}
	if _, err := s.AddParticipant("   "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank name: got %v, want ErrInvalidArgument", err)
	}

	if err := s.SplitEvenly(); err != nil {
		t.Fatalf("SplitEvenly failed: %v", err)
	}
	for _, p := range s.Participants {
		if !p.Amount.Equal(d("25.00")) {
			t.Errorf("%s amount = %s, want 25.00", p.Name, p.Amount)
		}
	}
	if !s.OwnerShare().Equal(d("25.00")) {
		t.Errorf("OwnerShare() = %s, want 25.00", s.OwnerShare())
	}
	if !s.CanSubmit() {
		t.Error("expected session to be submittable")
	}

	if err := s.Allocate(ids[0], d("60")); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if s.Status() != StatusOverspent {
		t.Errorf("Status() = %s, want %s", s.Status(), StatusOverspent)
	}
	if !s.OwnerShare().Equal(d("-10")) {
		t.Errorf("OwnerShare() = %s, want -10", s.OwnerShare())
	}
	if s.CanSubmit() {
		t.Error("overspent session must not be submittable")
	}

	if err := s.ToggleSettled(ids[1]); err != nil {
		t.Fatalf("ToggleSettled failed: %v", err)
	}
	if !s.Participants[1].Settled {
		t.Error("expected Bob to be settled")
	}

	if err := s.RemoveParticipant(ids[0]); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if err := s.RemoveParticipant(ids[1]); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if err := s.RemoveParticipant(ids[2]); !errors.Is(err, ErrLastParticipant) {
		t.Errorf("removing last participant: got %v, want ErrLastParticipant", err)
	}
	if err := s.RemoveParticipant("missing"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("removing unknown participant: got %v, want ErrParticipantNotFound", err)
	}
}
