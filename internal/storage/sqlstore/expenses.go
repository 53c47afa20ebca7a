package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

const expenseColumns = "id, group_id, amount, payer_id, description, created_by, created_at, last_edited_by, last_edited_at"

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	expense := &models.Expense{}
	var editedBy sql.NullString
	var editedAt sql.NullInt64
	if err := row.Scan(&expense.ID, &expense.GroupID, &expense.Amount, &expense.PayerID,
		&expense.Description, &expense.CreatedBy, &expense.CreatedAt, &editedBy, &editedAt); err != nil {
		return nil, err
	}
	expense.LastEditedBy = editedBy.String
	expense.LastEditedAt = editedAt.Int64
	return expense, nil
}

// CreateExpense persists a new expense and its splits.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			s.rebind(`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			expense.ID, expense.GroupID, expense.Amount, expense.PayerID, expense.Description,
			expense.CreatedBy, expense.CreatedAt, nullString(expense.LastEditedBy), nullInt(expense.LastEditedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return s.insertSplits(ctx, tx, expense)
	})
}

func (s *Store) insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for _, split := range expense.Splits {
		_, err := tx.ExecContext(ctx,
			s.rebind("INSERT INTO expense_splits (expense_id, user_id, amount) VALUES (?, ?, ?)"),
			expense.ID, split.UserID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// UpdateExpense replaces an expense's header and splits.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockGroupOf(ctx, tx, "expenses", expense.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			s.rebind(`UPDATE expenses SET amount = ?, payer_id = ?, description = ?,
			 last_edited_by = ?, last_edited_at = ? WHERE id = ?`),
			expense.Amount, expense.PayerID, expense.Description,
			nullString(expense.LastEditedBy), nullInt(expense.LastEditedAt), expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if err := requireAffected(res, ledger.ErrNotFound, "expense "+expense.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM expense_splits WHERE expense_id = ?"), expense.ID); err != nil {
			return fmt.Errorf("failed to clear expense splits: %w", err)
		}
		return s.insertSplits(ctx, tx, expense)
	})
}

// GetExpense retrieves an expense by ID with its splits.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		s.rebind("SELECT "+expenseColumns+" FROM expenses WHERE id = ?"), expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", ledger.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.attachSplits(ctx, s.db, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense. Its splits are removed by cascade.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockGroupOf(ctx, tx, "expenses", expenseID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.rebind("DELETE FROM expenses WHERE id = ?"), expenseID)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return requireAffected(res, ledger.ErrNotFound, "expense "+expenseID)
	})
}

// ListExpensesByGroup retrieves a group's expenses with splits, most recent first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx, s.db,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id DESC",
		groupID,
	)
}

// queryExpenses runs a query selecting expenseColumns and loads all splits
// of the returned expenses in one extra query.
func (s *Store) queryExpenses(ctx context.Context, q querier, query string, args ...any) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if err := s.attachSplits(ctx, q, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) attachSplits(ctx context.Context, q querier, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	placeholders, args := inClause(ids)
	rows, err := q.QueryContext(ctx,
		s.rebind(`SELECT expense_id, user_id, amount FROM expense_splits
		 WHERE expense_id IN (`+placeholders+`) ORDER BY expense_id, user_id`),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.ExpenseSplit
		if err := rows.Scan(&split.ExpenseID, &split.UserID, &split.Amount); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		if e, ok := byID[split.ExpenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}
