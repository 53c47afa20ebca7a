package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// GroupHistory is everything the balance engine needs for one group, read
// from a single consistent snapshot.
type GroupHistory struct {
	Group       *models.Group
	Expenses    []*models.Expense // with splits loaded
	Settlements []*models.Settlement
}

// UserHistory holds every expense and settlement one user takes part in,
// across all groups.
type UserHistory struct {
	Expenses    []*models.Expense // paid by the user or split with the user, all splits loaded
	Settlements []*models.Settlement
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// GetGroupHistory returns an error wrapping ErrGroupNotFound when the group does not exist.
	GetGroupHistory(ctx context.Context, groupID string) (*GroupHistory, error)
	GetUserHistory(ctx context.Context, userID string) (*UserHistory, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	GetGroupsByIDs(ctx context.Context, ids []string) (map[string]*models.Group, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CalculateBalances returns every member's net balance in the group.
func (s *Service) CalculateBalances(ctx context.Context, groupID string) (*BalanceMap, error) {
	h, err := s.repo.GetGroupHistory(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return CalculateBalances(h.Group.Members, h.Expenses, h.Settlements), nil
}

// VerifiedBalances is CalculateBalances followed by the zero-sum check.
// A failed check returns the balances together with an error wrapping
// ErrIntegrity.
func (s *Service) VerifiedBalances(ctx context.Context, groupID string) (*BalanceMap, error) {
	b, err := s.CalculateBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !IntegrityOK(b) {
		return b, fmt.Errorf("%w: group %s balances sum to %.4f", ErrIntegrity, groupID, b.Total())
	}
	return b, nil
}

// SuggestSettlements returns the payments that would settle the group.
func (s *Service) SuggestSettlements(ctx context.Context, groupID string) ([]Suggestion, error) {
	b, err := s.CalculateBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return SuggestSettlements(b), nil
}

// UserNetBalancesByPerson returns the user's open positions against every
// counterparty, per group, with display names filled in.
func (s *Service) UserNetBalancesByPerson(ctx context.Context, userID string) ([]NetPosition, error) {
	h, err := s.repo.GetUserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user history: %w", err)
	}

	positions := NetByPerson(userID, h.Expenses, h.Settlements)
	if len(positions) == 0 {
		return []NetPosition{}, nil
	}

	var userIDs, groupIDs []string
	seenUser := make(map[string]bool)
	seenGroup := make(map[string]bool)
	for _, p := range positions {
		if !seenUser[p.CounterpartyID] {
			seenUser[p.CounterpartyID] = true
			userIDs = append(userIDs, p.CounterpartyID)
		}
		if !seenGroup[p.GroupID] {
			seenGroup[p.GroupID] = true
			groupIDs = append(groupIDs, p.GroupID)
		}
	}

	users, err := s.repo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	groups, err := s.repo.GetGroupsByIDs(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve groups: %w", err)
	}

	for i := range positions {
		positions[i].CounterpartyName = "Unknown"
		if u, ok := users[positions[i].CounterpartyID]; ok {
			positions[i].CounterpartyName = u.DisplayName
		}
		positions[i].GroupName = "Unknown"
		if g, ok := groups[positions[i].GroupID]; ok {
			positions[i].GroupName = g.Name
		}
	}
	return positions, nil
}
