package calculator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minorUnits is the number of decimal places of the currency.
const minorUnits = 2

// Participant is one named friend in a split session.
type Participant struct {
	ID      string
	Name    string
	Amount  decimal.Decimal
	Settled bool
}

// SplitStatus summarizes how much of the total is allocated.
type SplitStatus string

const (
	// StatusRemaining means part of the total is still unallocated.
	StatusRemaining SplitStatus = "remaining"
	// StatusOverspent means participants were allocated more than the total.
	StatusOverspent SplitStatus = "overspent"
	// StatusAllocated means the allocations add up exactly to the total.
	StatusAllocated SplitStatus = "allocated"
)

// SplitEvenly returns the share of each named participant when total is divided evenly
// between them and the owner. The owner always holds one implicit share, so the divisor
// is participantCount+1. The share is rounded half-up to the currency's minor unit; the
// rounded shares may not add back up to total exactly.
func SplitEvenly(total decimal.Decimal, participantCount int) (decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: total %s is negative", ErrInvalidArgument, total)
	}
	if participantCount < 1 {
		return decimal.Zero, fmt.Errorf("%w: need at least one participant, got %d", ErrInvalidArgument, participantCount)
	}
	shares := decimal.NewFromInt(int64(participantCount) + 1)
	return total.DivRound(shares, minorUnits), nil
}

// Allocate sets the manual allocation of the participant with the given ID.
// The amount is not checked against the total: over-allocation is reported by
// Remaining and CanSubmit, not rejected here.
func Allocate(participants []Participant, id string, amount decimal.Decimal) error {
	if err := ValidateAmount("amount", amount); err != nil {
		return err
	}
	for i := range participants {
		if participants[i].ID == id {
			participants[i].Amount = amount
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
}

// ValidateAmount rejects negative amounts and amounts finer than a cent. what names
// the amount in the error.
func ValidateAmount(what string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s %s is negative", ErrInvalidArgument, what, amount)
	}
	if !amount.Equal(amount.Round(minorUnits)) {
		return fmt.Errorf("%w: %s %s has more than %d decimal places", ErrInvalidArgument, what, amount, minorUnits)
	}
	return nil
}

// Allocated returns the sum of all participant allocations.
func Allocated(participants []Participant) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Remaining returns total minus everything allocated. Negative means overspent.
func Remaining(total decimal.Decimal, participants []Participant) decimal.Decimal {
	return total.Sub(Allocated(participants))
}

// OwnerShare returns what the owner pays: their own contribution plus anything left
// unallocated. A negative value means the participants were allocated more than the bill
// and must be shown as overspent.
func OwnerShare(total decimal.Decimal, participants []Participant) decimal.Decimal {
	return Remaining(total, participants)
}

// CanSubmit reports whether the split may be finalized: something must be allocated
// and the allocations must not exceed the total.
func CanSubmit(total decimal.Decimal, participants []Participant) bool {
	return Allocated(participants).IsPositive() && !Remaining(total, participants).IsNegative()
}

// Status classifies the remaining amount.
func Status(total decimal.Decimal, participants []Participant) SplitStatus {
	remaining := Remaining(total, participants)
	switch {
	case remaining.IsNegative():
		return StatusOverspent
	case remaining.IsPositive():
		return StatusRemaining
	default:
		return StatusAllocated
	}
}

// Session is an in-progress split of a bill. It is not safe for concurrent use.
type Session struct {
	Total        decimal.Decimal
	Participants []Participant
}

// NewSession starts a split of total with no participants.
func NewSession(total decimal.Decimal) (*Session, error) {
	if err := ValidateAmount("total", total); err != nil {
		return nil, err
	}
	return &Session{Total: total}, nil
}

// AddParticipant appends a participant with a zero allocation and returns it.
func (s *Session) AddParticipant(name string) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, fmt.Errorf("%w: participant name is empty", ErrInvalidArgument)
	}
	p := Participant{ID: uuid.New().String(), Name: name, Amount: decimal.Zero}
	s.Participants = append(s.Participants, p)
	return p, nil
}

// RemoveParticipant drops a participant. The last participant cannot be removed.
func (s *Session) RemoveParticipant(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}
	if len(s.Participants) == 1 {
		return ErrLastParticipant
	}
	s.Participants = append(s.Participants[:idx], s.Participants[idx+1:]...)
	return nil
}

// Allocate sets one participant's manual allocation.
func (s *Session) Allocate(id string, amount decimal.Decimal) error {
	return Allocate(s.Participants, id, amount)
}

// SplitEvenly assigns every participant the even share (owner included in the divisor).
func (s *Session) SplitEvenly() error {
	share, err := SplitEvenly(s.Total, len(s.Participants))
	if err != nil {
		return err
	}
	for i := range s.Participants {
		s.Participants[i].Amount = share
	}
	return nil
}

// ToggleSettled flips the settled flag of a participant.
func (s *Session) ToggleSettled(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}
	s.Participants[idx].Settled = !s.Participants[idx].Settled
	return nil
}

// Allocated returns the sum of the session's allocations.
func (s *Session) Allocated() decimal.Decimal { return Allocated(s.Participants) }

// Remaining returns the session total minus its allocations.
func (s *Session) Remaining() decimal.Decimal { return Remaining(s.Total, s.Participants) }

// OwnerShare returns what the owner pays for the session.
func (s *Session) OwnerShare() decimal.Decimal { return OwnerShare(s.Total, s.Participants) }

// CanSubmit reports whether the session may be finalized.
func (s *Session) CanSubmit() bool { return CanSubmit(s.Total, s.Participants) }

// Status classifies the session's remaining amount.
func (s *Session) Status() SplitStatus { return Status(s.Total, s.Participants) }

func (s *Session) indexOf(id string) int {
	for i, p := range s.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}
