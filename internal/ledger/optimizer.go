package ledger

import (
	"math"
	"sort"
)

// Suggestion is a recommended payment that moves the group towards zero.
type Suggestion struct {
	From   string // member who pays
	To     string // member who is paid
	Amount float64
}

type party struct {
	id     string
	amount float64
}

// SuggestSettlements computes payments that zero out every balance in b.
//
// Members inside the tolerance band are treated as settled. Debtors and
// creditors are each sorted by amount, largest first; ties keep the map's
// iteration order. The largest remaining debtor then pays the largest
// remaining creditor the smaller of the two amounts, until one side runs out.
//
// The result has at most debtors+creditors-1 entries. This greedy matching is
// a practical heuristic and does not always find the fewest payments.
//
// Emitted amounts are rounded to cents; the unrounded remainders carry over
// so rounding error does not accumulate.
func SuggestSettlements(b *BalanceMap) []Suggestion {
	var creditors, debtors []party
	for _, id := range b.ids {
		bal := b.amounts[id]
		if bal > Tolerance {
			creditors = append(creditors, party{id: id, amount: bal})
		} else if bal < -Tolerance {
			debtors = append(debtors, party{id: id, amount: -bal})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	suggestions := make([]Suggestion, 0, len(creditors)+len(debtors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].amount, creditors[j].amount)

		suggestions = append(suggestions, Suggestion{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: Round2(amount),
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		// Both sides can close on the same step.
		if debtors[i].amount < Tolerance {
			i++
		}
		if creditors[j].amount < Tolerance {
			j++
		}
	}

	return suggestions
}
