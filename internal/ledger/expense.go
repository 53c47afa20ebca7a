package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseParams describes an expense to create or the new state of one being edited.
type ExpenseParams struct {
	Group       *models.Group
	Amount      float64
	PayerID     string
	Description string
	// Splits maps member ID to amount owed. When empty, Amount is split
	// equally among the group's current members.
	Splits  map[string]float64
	ActorID string
}

// NewExpense validates p and builds the expense with its splits.
func NewExpense(p ExpenseParams) (*models.Expense, error) {
	e := &models.Expense{
		ID:        uuid.New().String(),
		CreatedBy: p.ActorID,
		CreatedAt: time.Now().Unix(),
	}
	if err := applyExpense(e, p); err != nil {
		return nil, err
	}
	return e, nil
}

// EditExpense re-derives e from p, replacing its splits, and stamps the editor.
// e is left untouched on error.
func EditExpense(e *models.Expense, p ExpenseParams) (*models.Expense, error) {
	edited := *e
	edited.Splits = nil
	if err := applyExpense(&edited, p); err != nil {
		return nil, err
	}
	edited.LastEditedBy = p.ActorID
	edited.LastEditedAt = time.Now().Unix()
	return &edited, nil
}

func applyExpense(e *models.Expense, p ExpenseParams) error {
	if p.Group == nil {
		return ErrGroupNotFound
	}
	if err := validateAmount("amount", p.Amount); err != nil {
		return err
	}
	if p.PayerID == "" {
		return fmt.Errorf("%w: payer is required", ErrInvalidData)
	}
	if !p.Group.HasMember(p.PayerID) {
		return fmt.Errorf("%w: payer %s is not a member of the group", ErrInvalidData, p.PayerID)
	}

	e.GroupID = p.Group.ID
	e.Amount = p.Amount
	e.PayerID = p.PayerID
	e.Description = strings.TrimSpace(p.Description)

	if len(p.Splits) == 0 {
		splits, err := EqualSplits(e.ID, p.Amount, p.Group.Members)
		if err != nil {
			return err
		}
		e.Splits = splits
		return nil
	}

	// Walk members rather than the map so split order is stable.
	seen := 0
	total := decimal.Zero
	for _, memberID := range p.Group.Members {
		owed, ok := p.Splits[memberID]
		if !ok {
			continue
		}
		seen++
		if err := validateAmount("split amount", owed); err != nil {
			return err
		}
		total = total.Add(decimal.NewFromFloat(owed))
		e.Splits = append(e.Splits, models.ExpenseSplit{
			ExpenseID: e.ID,
			UserID:    memberID,
			Amount:    owed,
		})
	}
	if seen != len(p.Splits) {
		return fmt.Errorf("%w: splits reference users outside the group", ErrInvalidData)
	}
	// Amounts are whole cents, so the sum must match exactly.
	if !total.Equal(decimal.NewFromFloat(p.Amount)) {
		return fmt.Errorf("%w: splits sum to %s, expense amount is %.2f", ErrInvalidData, total.StringFixed(2), p.Amount)
	}
	return nil
}
