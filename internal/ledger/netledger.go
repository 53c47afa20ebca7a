package ledger

import "github.com/mmynk/splitledger/internal/models"

// NetPosition is the signed amount between a user and one counterparty within
// one group. Positive = the counterparty owes the user.
type NetPosition struct {
	CounterpartyID   string
	CounterpartyName string
	GroupID          string
	GroupName        string
	Amount           float64
}

type netKey struct {
	counterparty string
	group        string
}

// NetByPerson folds every expense and settlement touching userID into
// per-(counterparty, group) totals.
//
// Expenses the user paid add each other member's split; splits the user owes
// on someone else's expense subtract from that payer. Paying a settlement
// moves the user's position towards positive, receiving one moves it towards
// negative. Positions inside the tolerance band are dropped and the rest are
// rounded to cents. Names are left empty for the caller to resolve.
//
// Results keep the order in which each (counterparty, group) pair first
// appears in the input.
func NetByPerson(userID string, expenses []*models.Expense, settlements []*models.Settlement) []NetPosition {
	var order []netKey
	net := make(map[netKey]float64)
	add := func(k netKey, delta float64) {
		if _, ok := net[k]; !ok {
			order = append(order, k)
		}
		net[k] += delta
	}

	for _, e := range expenses {
		if e.PayerID == userID {
			for _, s := range e.Splits {
				if s.UserID != userID {
					add(netKey{counterparty: s.UserID, group: e.GroupID}, s.Amount)
				}
			}
			continue
		}
		for _, s := range e.Splits {
			if s.UserID == userID {
				add(netKey{counterparty: e.PayerID, group: e.GroupID}, -s.Amount)
			}
		}
	}

	for _, s := range settlements {
		switch userID {
		case s.PayerID:
			add(netKey{counterparty: s.ReceiverID, group: s.GroupID}, s.Amount)
		case s.ReceiverID:
			add(netKey{counterparty: s.PayerID, group: s.GroupID}, -s.Amount)
		}
	}

	positions := make([]NetPosition, 0, len(order))
	for _, k := range order {
		amount := net[k]
		if IsSettled(amount) {
			continue
		}
		positions = append(positions, NetPosition{
			CounterpartyID: k.counterparty,
			GroupID:        k.group,
			Amount:         Round2(amount),
		})
	}
	return positions
}
