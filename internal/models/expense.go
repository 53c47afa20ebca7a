package models

// Expense is a single payment made by one member on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Amount is the full amount paid. Always positive.
	Amount float64

	// PayerID is the user who paid.
	PayerID string

	// Description is optional free text ("Groceries", "Hotel").
	Description string

	// Splits are the members' shares. Their amounts sum to Amount.
	Splits []ExpenseSplit

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// LastEditedBy and LastEditedAt are empty until the expense is edited.
	LastEditedBy string
	LastEditedAt int64
}

// ExpenseSplit is the share of an expense owed by one member.
type ExpenseSplit struct {
	ExpenseID string
	UserID    string
	Amount    float64
}

// SplitTotal returns the sum of the expense's split amounts.
func (e *Expense) SplitTotal() float64 {
	var total float64
	for _, s := range e.Splits {
		total += s.Amount
	}
	return total
}
