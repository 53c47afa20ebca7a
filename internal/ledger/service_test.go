package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmynk/splitledger/internal/models"
)

func TestService_CalculateBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	repo.EXPECT().GetGroupHistory(gomock.Any(), "g1").Return(&GroupHistory{
		Group: &models.Group{ID: "g1", Members: []string{"alice", "bob"}},
		Expenses: []*models.Expense{{
			GroupID: "g1", PayerID: "alice", Amount: 40,
			Splits: []models.ExpenseSplit{{UserID: "alice", Amount: 20}, {UserID: "bob", Amount: 20}},
		}},
	}, nil)

	b, err := svc.CalculateBalances(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, b.IDs())
	got, _ := b.Get("alice")
	assert.InDelta(t, 20, got, 1e-9)
	got, _ = b.Get("bob")
	assert.InDelta(t, -20, got, 1e-9)
}

func TestService_GroupNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	repo.EXPECT().GetGroupHistory(gomock.Any(), "missing").
		Return(nil, fmt.Errorf("group missing: %w", ErrGroupNotFound)).Times(2)

	_, err := svc.CalculateBalances(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = svc.SuggestSettlements(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestService_SuggestSettlements(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	repo.EXPECT().GetGroupHistory(gomock.Any(), "g1").Return(&GroupHistory{
		Group: &models.Group{ID: "g1", Members: []string{"alice", "bob"}},
		Expenses: []*models.Expense{{
			GroupID: "g1", PayerID: "alice", Amount: 40,
			Splits: []models.ExpenseSplit{{UserID: "alice", Amount: 20}, {UserID: "bob", Amount: 20}},
		}},
		Settlements: []*models.Settlement{{GroupID: "g1", PayerID: "bob", ReceiverID: "alice", Amount: 5}},
	}, nil)

	got, err := svc.SuggestSettlements(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{From: "bob", To: "alice", Amount: 15}}, got)
}

func TestService_UserNetBalancesByPerson(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	repo.EXPECT().GetUserHistory(gomock.Any(), "u").Return(&UserHistory{
		Expenses: []*models.Expense{
			{GroupID: "g1", PayerID: "u", Amount: 100, Splits: []models.ExpenseSplit{{UserID: "u", Amount: 50}, {UserID: "v", Amount: 50}}},
			{GroupID: "g2", PayerID: "w", Amount: 40, Splits: []models.ExpenseSplit{{UserID: "w", Amount: 20}, {UserID: "u", Amount: 20}}},
		},
	}, nil)
	repo.EXPECT().GetUsersByIDs(gomock.Any(), []string{"v", "w"}).Return(map[string]*models.User{
		"v": {ID: "v", DisplayName: "Vera"},
	}, nil)
	repo.EXPECT().GetGroupsByIDs(gomock.Any(), []string{"g1", "g2"}).Return(map[string]*models.Group{
		"g1": {ID: "g1", Name: "Trip"},
		"g2": {ID: "g2", Name: "Flat"},
	}, nil)

	got, err := svc.UserNetBalancesByPerson(context.Background(), "u")
	require.NoError(t, err)

	assert.Equal(t, []NetPosition{
		{CounterpartyID: "v", CounterpartyName: "Vera", GroupID: "g1", GroupName: "Trip", Amount: 50},
		{CounterpartyID: "w", CounterpartyName: "Unknown", GroupID: "g2", GroupName: "Flat", Amount: -20},
	}, got)
}

func TestService_UserNetBalancesByPerson_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	repo.EXPECT().GetUserHistory(gomock.Any(), "u").Return(&UserHistory{}, nil)

	got, err := svc.UserNetBalancesByPerson(context.Background(), "u")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_UserNetBalancesByPerson_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	boom := errors.New("boom")
	repo.EXPECT().GetUserHistory(gomock.Any(), "u").Return(nil, boom)

	_, err := svc.UserNetBalancesByPerson(context.Background(), "u")
	assert.ErrorIs(t, err, boom)
}

func TestService_VerifiedBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	group := &models.Group{ID: "g1", Members: []string{"alice", "bob"}}
	repo.EXPECT().GetGroupHistory(gomock.Any(), "ok").Return(&GroupHistory{
		Group: group,
		Expenses: []*models.Expense{{
			PayerID: "alice", Amount: 10,
			Splits: []models.ExpenseSplit{{UserID: "alice", Amount: 5}, {UserID: "bob", Amount: 5}},
		}},
	}, nil)
	// Splits short of the amount, as written by a buggy importer.
	repo.EXPECT().GetGroupHistory(gomock.Any(), "corrupt").Return(&GroupHistory{
		Group: group,
		Expenses: []*models.Expense{{
			PayerID: "alice", Amount: 10,
			Splits: []models.ExpenseSplit{{UserID: "bob", Amount: 5}},
		}},
	}, nil)

	b, err := svc.VerifiedBalances(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	b, err = svc.VerifiedBalances(context.Background(), "corrupt")
	assert.ErrorIs(t, err, ErrIntegrity)
	require.NotNil(t, b)
	assert.InDelta(t, 5, b.Total(), 1e-9)
}
