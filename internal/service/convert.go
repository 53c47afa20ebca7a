package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

const unknownName = "Unknown"

// names maps user IDs to display names.
type names map[string]string

func (n names) of(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return unknownName
}

// resolveNames looks up display names for ids in one query.
func resolveNames(ctx context.Context, users storage.UserStore, ids []string) (names, error) {
	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	n := make(names, len(found))
	for id, u := range found {
		n[id] = u.DisplayName
	}
	return n, nil
}

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group, n names) api.Group {
	members := make([]api.Member, len(g.Members))
	for i, id := range g.Members {
		members[i] = api.Member{UserID: id, DisplayName: n.of(id)}
	}
	return api.Group{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{UserID: s.UserID, Amount: s.Amount}
	}
	return api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Amount:       e.Amount,
		PayerID:      e.PayerID,
		Description:  e.Description,
		Splits:       splits,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		LastEditedBy: e.LastEditedBy,
		LastEditedAt: e.LastEditedAt,
	}
}

func toAPISettlement(s *models.Settlement) api.Settlement {
	return api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		PayerID:    s.PayerID,
		ReceiverID: s.ReceiverID,
		Amount:     s.Amount,
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

func toAPIBalances(g *models.Group, b *ledger.BalanceMap, n names) []api.Balance {
	out := make([]api.Balance, 0, b.Len())
	for _, id := range b.IDs() {
		amount, _ := b.Get(id)
		out = append(out, api.Balance{
			UserID:      id,
			DisplayName: n.of(id),
			Amount:      ledger.Round2(amount),
			IsMember:    g.HasMember(id),
		})
	}
	return out
}
