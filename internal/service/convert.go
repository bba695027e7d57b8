package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ecosplit/internal/calculator"
	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIReceipt(r *models.Receipt) *api.Receipt {
	items := make([]*api.ReceiptItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = &api.ReceiptItem{
			Name:        item.Name,
			Price:       item.Price,
			EcoFriendly: item.EcoFriendly,
			EcoScore:    item.EcoScore,
		}
	}
	return &api.Receipt{
		ID:         r.ID,
		Title:      r.Title,
		Items:      items,
		Total:      r.Total,
		GreenScore: r.GreenScore,
		CreatedAt:  r.CreatedAt,
	}
}

func toAPIGreenScore(gs *models.GreenScore) *api.GreenScore {
	return &api.GreenScore{
		UserID:    gs.UserID,
		Week:      gs.Period.Week,
		Year:      gs.Period.Year,
		Score:     gs.Score,
		UpdatedAt: gs.UpdatedAt,
	}
}

func toAPISplit(sp *models.Split) *api.Split {
	participants := make([]*api.Participant, len(sp.Participants))
	for i, p := range sp.Participants {
		participants[i] = &api.Participant{Name: p.Name, Amount: p.Amount, Settled: p.Settled}
	}
	return &api.Split{
		ID:           sp.ID,
		ReceiptID:    sp.ReceiptID,
		Title:        sp.Title,
		Total:        sp.Total,
		OwnerShare:   sp.OwnerShare,
		Participants: participants,
		CreatedAt:    sp.CreatedAt,
	}
}

func toAPIParticipants(participants []calculator.Participant) []*api.Participant {
	out := make([]*api.Participant, len(participants))
	for i, p := range participants {
		out[i] = &api.Participant{ID: p.ID, Name: p.Name, Amount: p.Amount, Settled: p.Settled}
	}
	return out
}

// fromAPIItems validates and converts request items.
func fromAPIItems(items []*api.ReceiptItem) ([]models.ReceiptItem, error) {
	out := make([]models.ReceiptItem, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: item %d is null", calculator.ErrInvalidArgument, i)
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", calculator.ErrInvalidArgument, i)
		}
		if err := calculator.ValidateAmount(fmt.Sprintf("item %q price", name), item.Price); err != nil {
			return nil, err
		}
		if item.EcoScore != nil && (*item.EcoScore < 0 || *item.EcoScore > 1) {
			return nil, fmt.Errorf("%w: item %q eco_score must be within 0..1", calculator.ErrInvalidArgument, name)
		}
		out = append(out, models.ReceiptItem{
			Name:        name,
			Price:       item.Price,
			EcoFriendly: item.EcoFriendly,
			EcoScore:    item.EcoScore,
		})
	}
	return out, nil
}

// buildSession turns request participants into a calculator session. Participants
// without an ID get a generated one.
func buildSession(total decimal.Decimal, participants []*api.Participant) (*calculator.Session, error) {
	session, err := calculator.NewSession(total)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(participants))
	for i, p := range participants {
		if p == nil {
			return nil, fmt.Errorf("%w: participant %d is null", calculator.ErrInvalidArgument, i)
		}
		if p.ID != "" {
			if seen[p.ID] {
				return nil, fmt.Errorf("%w: duplicate participant id %s", calculator.ErrInvalidArgument, p.ID)
			}
			seen[p.ID] = true
		}
		added, err := session.AddParticipant(p.Name)
		if err != nil {
			return nil, err
		}
		if p.ID != "" {
			session.Participants[i].ID = p.ID
			added.ID = p.ID
		}
		if err := session.Allocate(added.ID, p.Amount); err != nil {
			return nil, err
		}
		if p.Settled {
			if err := session.ToggleSettled(added.ID); err != nil {
				return nil, err
			}
		}
	}
	return session, nil
}
