// Package ledger derives balances, settlement suggestions and per-person net
// positions from a group's expense and settlement history. The functions in
// this package hold no state; Service wires them to a Repository.
package ledger

import (
	"math"

	"github.com/mmynk/splitledger/internal/models"
)

// BalanceMap maps member IDs to signed net balances for one group.
// Positive = member is owed money, negative = member owes money.
// Iteration order is the order in which members were first seen.
type BalanceMap struct {
	ids     []string
	amounts map[string]float64
}

// NewBalanceMap returns an empty map.
func NewBalanceMap() *BalanceMap {
	return &BalanceMap{amounts: make(map[string]float64)}
}

func (b *BalanceMap) ensure(id string) {
	if _, ok := b.amounts[id]; !ok {
		b.ids = append(b.ids, id)
		b.amounts[id] = 0
	}
}

// Add moves id's balance by delta, creating the entry when needed.
func (b *BalanceMap) Add(id string, delta float64) {
	b.ensure(id)
	b.amounts[id] += delta
}

// Get returns id's balance and whether id has an entry.
func (b *BalanceMap) Get(id string) (float64, bool) {
	v, ok := b.amounts[id]
	return v, ok
}

// IDs returns the member IDs in iteration order.
func (b *BalanceMap) IDs() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Len returns the number of entries.
func (b *BalanceMap) Len() int {
	return len(b.ids)
}

// Total returns the sum of all balances.
func (b *BalanceMap) Total() float64 {
	var total float64
	for _, id := range b.ids {
		total += b.amounts[id]
	}
	return total
}

// Map returns a copy of the balances as a plain map.
func (b *BalanceMap) Map() map[string]float64 {
	out := make(map[string]float64, len(b.amounts))
	for id, v := range b.amounts {
		out[id] = v
	}
	return out
}

// CalculateBalances folds a group's history into a BalanceMap.
//
// Algorithm:
//   - every current member starts at 0, in membership order
//   - each expense credits its payer with the full amount
//   - each split debits its owner by the amount owed
//   - each settlement credits the payer and debits the receiver
//
// People who appear in the history but are no longer members still get an
// entry, otherwise their debits would vanish and the map would stop summing
// to zero.
func CalculateBalances(memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) *BalanceMap {
	b := NewBalanceMap()
	for _, id := range memberIDs {
		b.ensure(id)
	}

	for _, e := range expenses {
		b.Add(e.PayerID, e.Amount)
	}
	for _, e := range expenses {
		for _, s := range e.Splits {
			b.Add(s.UserID, -s.Amount)
		}
	}

	for _, s := range settlements {
		b.Add(s.PayerID, s.Amount)
		b.Add(s.ReceiverID, -s.Amount)
	}

	return b
}

// IntegrityOK reports whether the balances sum to zero within Tolerance.
// Every expense credits exactly what its splits debit and every settlement
// moves value between two parties, so anything else means corrupt history.
func IntegrityOK(b *BalanceMap) bool {
	return math.Abs(b.Total()) < Tolerance
}
