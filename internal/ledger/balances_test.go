package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

func expense(payer string, amount float64, splits map[string]float64, order ...string) *models.Expense {
	e := &models.Expense{ID: "e-" + payer, GroupID: "g1", PayerID: payer, Amount: amount}
	for _, id := range order {
		e.Splits = append(e.Splits, models.ExpenseSplit{ExpenseID: e.ID, UserID: id, Amount: splits[id]})
	}
	return e
}

func settlement(payer, receiver string, amount float64) *models.Settlement {
	return &models.Settlement{GroupID: "g1", PayerID: payer, ReceiverID: receiver, Amount: amount}
}

func balanceOf(t *testing.T, b *ledger.BalanceMap, id string) float64 {
	t.Helper()
	v, ok := b.Get(id)
	require.True(t, ok, "missing balance for %s", id)
	return v
}

// dinnerForThree: Alice pays 90 split equally between Alice, Bob and Carol.
func dinnerForThree() ([]string, []*models.Expense) {
	members := []string{"alice", "bob", "carol"}
	expenses := []*models.Expense{
		expense("alice", 90, map[string]float64{"alice": 30, "bob": 30, "carol": 30}, members...),
	}
	return members, expenses
}

func TestCalculateBalances_EqualThreeWaySplit(t *testing.T) {
	members, expenses := dinnerForThree()

	b := ledger.CalculateBalances(members, expenses, nil)

	assert.InDelta(t, 60.0, balanceOf(t, b, "alice"), 1e-9)
	assert.InDelta(t, -30.0, balanceOf(t, b, "bob"), 1e-9)
	assert.InDelta(t, -30.0, balanceOf(t, b, "carol"), 1e-9)
	assert.True(t, ledger.IntegrityOK(b))
	assert.Equal(t, members, b.IDs())
}

func TestCalculateBalances_AfterOneSettles(t *testing.T) {
	members, expenses := dinnerForThree()
	settlements := []*models.Settlement{settlement("bob", "alice", 30)}

	b := ledger.CalculateBalances(members, expenses, settlements)

	assert.InDelta(t, 30.0, balanceOf(t, b, "alice"), 1e-9)
	assert.InDelta(t, 0.0, balanceOf(t, b, "bob"), 1e-9)
	assert.InDelta(t, -30.0, balanceOf(t, b, "carol"), 1e-9)
	assert.True(t, ledger.IntegrityOK(b))
}

func TestCalculateBalances_SettlementMovesOnlyTwoParties(t *testing.T) {
	members, expenses := dinnerForThree()
	before := ledger.CalculateBalances(members, expenses, nil)
	after := ledger.CalculateBalances(members, expenses, []*models.Settlement{settlement("carol", "alice", 12.5)})

	assert.InDelta(t, balanceOf(t, before, "carol")+12.5, balanceOf(t, after, "carol"), 1e-9)
	assert.InDelta(t, balanceOf(t, before, "alice")-12.5, balanceOf(t, after, "alice"), 1e-9)
	assert.InDelta(t, balanceOf(t, before, "bob"), balanceOf(t, after, "bob"), 1e-9)
}

func TestCalculateBalances_MembersWithoutActivity(t *testing.T) {
	b := ledger.CalculateBalances([]string{"alice", "bob"}, nil, nil)

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 0.0, balanceOf(t, b, "alice"))
	assert.Equal(t, 0.0, balanceOf(t, b, "bob"))
	assert.True(t, ledger.IntegrityOK(b))
}

func TestCalculateBalances_FormerMemberKeepsEntry(t *testing.T) {
	// dave took part in an expense but has since left the group.
	expenses := []*models.Expense{
		expense("alice", 40, map[string]float64{"alice": 20, "dave": 20}, "alice", "dave"),
	}

	b := ledger.CalculateBalances([]string{"alice", "bob"}, expenses, nil)

	assert.Equal(t, []string{"alice", "bob", "dave"}, b.IDs())
	assert.InDelta(t, -20.0, balanceOf(t, b, "dave"), 1e-9)
	assert.True(t, ledger.IntegrityOK(b))
}

func TestCalculateBalances_Idempotent(t *testing.T) {
	members, expenses := dinnerForThree()
	settlements := []*models.Settlement{settlement("bob", "alice", 10)}

	first := ledger.CalculateBalances(members, expenses, settlements)
	second := ledger.CalculateBalances(members, expenses, settlements)

	assert.Equal(t, first.Map(), second.Map())
	assert.Equal(t, first.IDs(), second.IDs())
}

func TestIntegrityOK(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]float64
		want     bool
	}{
		{name: "empty", balances: map[string]float64{}, want: true},
		{name: "balanced", balances: map[string]float64{"a": 10, "b": -10}, want: true},
		{name: "rounding noise", balances: map[string]float64{"a": 33.34, "b": -33.333}, want: true},
		{name: "short split", balances: map[string]float64{"a": 90, "b": -30, "c": -30}, want: false},
		{name: "two cents off", balances: map[string]float64{"a": 10.02, "b": -10}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ledger.NewBalanceMap()
			for id, v := range tt.balances {
				b.Add(id, v)
			}
			assert.Equal(t, tt.want, ledger.IntegrityOK(b), "total = %v", b.Total())
		})
	}
}

func TestCalculateBalances_ZeroSumAcrossHistory(t *testing.T) {
	members := []string{"a", "b", "c", "d"}
	var expenses []*models.Expense
	for i, payer := range members {
		amount := float64(17*(i+1)) + 0.31
		splits, err := ledger.EqualSplits("x", amount, members)
		require.NoError(t, err)
		expenses = append(expenses, &models.Expense{PayerID: payer, Amount: amount, Splits: splits})
	}
	settlements := []*models.Settlement{
		settlement("a", "d", 11.11),
		settlement("b", "c", 3.07),
	}

	b := ledger.CalculateBalances(members, expenses, settlements)

	assert.True(t, ledger.IntegrityOK(b))
	assert.Less(t, math.Abs(b.Total()), 0.01)
}
