package ledger

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Tolerance is the amount below which a balance is treated as settled.
const Tolerance = 0.01

// Round2 rounds v to whole cents, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// IsSettled reports whether v lies inside the tolerance band around zero.
func IsSettled(v float64) bool {
	return math.Abs(v) <= Tolerance
}

// validateAmount checks that v is a positive, finite amount in whole cents.
func validateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a number", ErrInvalidData, field)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidData, field)
	}
	d := decimal.NewFromFloat(v)
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: %s must have at most two decimal places", ErrInvalidData, field)
	}
	return nil
}

// EqualSplits divides amount among memberIDs in whole cents. Leftover cents go
// one each to the first members, so the shares always add up to amount.
func EqualSplits(expenseID string, amount float64, memberIDs []string) ([]models.ExpenseSplit, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: group has no members", ErrInvalidData)
	}

	cents := decimal.NewFromFloat(amount).Shift(2).IntPart()
	n := int64(len(memberIDs))
	base := cents / n
	remainder := cents % n

	splits := make([]models.ExpenseSplit, 0, n)
	for i, userID := range memberIDs {
		share := base
		if int64(i) < remainder {
			share++
		}
		splits = append(splits, models.ExpenseSplit{
			ExpenseID: expenseID,
			UserID:    userID,
			Amount:    decimal.New(share, -2).InexactFloat64(),
		})
	}
	return splits, nil
}
