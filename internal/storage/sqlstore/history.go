package sqlstore

import (
	"context"
	"database/sql"

	"github.com/mmynk/splitledger/internal/ledger"
)

// GetGroupHistory reads a group with all of its expenses and settlements
// inside one snapshot transaction, so the balance fold sees a consistent view.
func (s *Store) GetGroupHistory(ctx context.Context, groupID string) (*ledger.GroupHistory, error) {
	var h *ledger.GroupHistory
	err := s.withSnapshot(ctx, func(tx *sql.Tx) error {
		var err error
		h, err = s.loadGroupHistory(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Store) loadGroupHistory(ctx context.Context, q querier, groupID string) (*ledger.GroupHistory, error) {
	group, err := s.getGroup(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	h := &ledger.GroupHistory{Group: group}

	h.Expenses, err = s.queryExpenses(ctx, q,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at, id",
		groupID,
	)
	if err != nil {
		return nil, err
	}

	h.Settlements, err = s.querySettlements(ctx, q,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY created_at, id",
		groupID,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetUserHistory reads every expense the user paid or owes a share of, and
// every settlement the user paid or received, across all groups.
func (s *Store) GetUserHistory(ctx context.Context, userID string) (*ledger.UserHistory, error) {
	h := &ledger.UserHistory{}
	err := s.withSnapshot(ctx, func(tx *sql.Tx) error {
		var err error
		h.Expenses, err = s.queryExpenses(ctx, tx,
			`SELECT `+expenseColumns+` FROM expenses
			 WHERE payer_id = ? OR id IN (SELECT expense_id FROM expense_splits WHERE user_id = ?)
			 ORDER BY created_at, id`,
			userID, userID,
		)
		if err != nil {
			return err
		}

		h.Settlements, err = s.querySettlements(ctx, tx,
			`SELECT `+settlementColumns+` FROM settlements
			 WHERE payer_id = ? OR receiver_id = ? ORDER BY created_at, id`,
			userID, userID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}
