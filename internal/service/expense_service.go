package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/audit"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// ExpenseService implements the ExpenseService RPC interface: expenses and
// the settlements recorded against them.
type ExpenseService struct {
	store storage.Store
	audit audit.Recorder
}

// NewExpenseService creates an ExpenseService backed by store.
func NewExpenseService(store storage.Store, recorder audit.Recorder) *ExpenseService {
	return &ExpenseService{store: store, audit: recorder}
}

// splitMap turns wire splits into the ledger's member -> amount form.
// A user listed twice is rejected rather than merged.
func splitMap(splits []api.Split) (map[string]float64, error) {
	if len(splits) == 0 {
		return nil, nil
	}
	m := make(map[string]float64, len(splits))
	for _, s := range splits {
		if _, dup := m[s.UserID]; dup {
			return nil, fmt.Errorf("%w: user %s appears in more than one split", ledger.ErrInvalidData, s.UserID)
		}
		m[s.UserID] = s.Amount
	}
	return m, nil
}

func expenseSummary(e *models.Expense) string {
	if e.Description != "" {
		return fmt.Sprintf("%s (%.2f)", e.Description, e.Amount)
	}
	return fmt.Sprintf("%.2f", e.Amount)
}

// CreateExpense records an expense paid by a group member.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID, "amount", req.Msg.Amount, "splits_count", len(req.Msg.Splits))

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionAddExpense)
	if err != nil {
		return nil, fail("CreateExpense failed", err, "group_id", req.Msg.GroupID)
	}

	splits, err := splitMap(req.Msg.Splits)
	if err != nil {
		return nil, fail("CreateExpense rejected", err)
	}
	expense, err := ledger.NewExpense(ledger.ExpenseParams{
		Group:       group,
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PayerID,
		Description: req.Msg.Description,
		Splits:      splits,
		ActorID:     actor.UserID,
	})
	if err != nil {
		return nil, fail("CreateExpense rejected", err, "group_id", group.ID)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fail("CreateExpense failed", err, "group_id", group.ID)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventExpenseCreated,
		audit.WithSubject(expense.ID), audit.WithSummary(expenseSummary(expense))))

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense's amount, payer, description and splits.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	current, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("UpdateExpense failed", err, "expense_id", req.Msg.ExpenseID)
	}
	group, err := s.store.GetGroup(ctx, current.GroupID)
	if err != nil {
		return nil, fail("UpdateExpense failed", err, "group_id", current.GroupID)
	}
	if err := ledger.Authorize(actor, ledger.ActionEditExpense, ledger.Subject{Group: group, Expense: current}); err != nil {
		return nil, fail("UpdateExpense denied", err, "expense_id", current.ID)
	}

	splits, err := splitMap(req.Msg.Splits)
	if err != nil {
		return nil, fail("UpdateExpense rejected", err)
	}
	edited, err := ledger.EditExpense(current, ledger.ExpenseParams{
		Group:       group,
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PayerID,
		Description: req.Msg.Description,
		Splits:      splits,
		ActorID:     actor.UserID,
	})
	if err != nil {
		return nil, fail("UpdateExpense rejected", err, "expense_id", current.ID)
	}

	if err := s.store.UpdateExpense(ctx, edited); err != nil {
		return nil, fail("UpdateExpense failed", err, "expense_id", current.ID)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventExpenseUpdated,
		audit.WithSubject(edited.ID), audit.WithSummary(expenseSummary(edited))))

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(edited)}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("DeleteExpense failed", err, "expense_id", req.Msg.ExpenseID)
	}
	if err := ledger.Authorize(actor, ledger.ActionDeleteExpense, ledger.Subject{Expense: expense}); err != nil {
		return nil, fail("DeleteExpense denied", err, "expense_id", expense.ID)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		return nil, fail("DeleteExpense failed", err, "expense_id", expense.ID)
	}
	s.audit.Record(audit.NewEvent(expense.GroupID, actor.UserID, models.EventExpenseDeleted,
		audit.WithSubject(expense.ID), audit.WithSummary(expenseSummary(expense))))

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's expenses, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionViewGroup)
	if err != nil {
		return nil, fail("ListExpenses failed", err, "group_id", req.Msg.GroupID)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("ListExpenses failed", err, "group_id", group.ID)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// CreateSettlement records a direct payment between two members. Only the
// payer or the receiver may record it.
func (s *ExpenseService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateSettlement request received",
		"group_id", req.Msg.GroupID, "payer_id", req.Msg.PayerID, "receiver_id", req.Msg.ReceiverID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("CreateSettlement failed", err, "group_id", req.Msg.GroupID)
	}
	subject := ledger.Subject{Group: group, PayerID: req.Msg.PayerID, ReceiverID: req.Msg.ReceiverID}
	if err := ledger.Authorize(actor, ledger.ActionRecordSettlement, subject); err != nil {
		return nil, fail("CreateSettlement denied", err, "group_id", group.ID)
	}

	settlement, err := ledger.NewSettlement(ledger.SettlementParams{
		Group:      group,
		PayerID:    req.Msg.PayerID,
		ReceiverID: req.Msg.ReceiverID,
		Amount:     req.Msg.Amount,
		Note:       req.Msg.Note,
		ActorID:    actor.UserID,
	})
	if err != nil {
		return nil, fail("CreateSettlement rejected", err, "group_id", group.ID)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fail("CreateSettlement failed", err, "group_id", group.ID)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventSettlementCreated,
		audit.WithSubject(settlement.ID), audit.WithSummary(fmt.Sprintf("%.2f", settlement.Amount))))

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements returns a group's settlements, most recent first.
func (s *ExpenseService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionViewGroup)
	if err != nil {
		return nil, fail("ListSettlements failed", err, "group_id", req.Msg.GroupID)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("ListSettlements failed", err, "group_id", group.ID)
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a recorded payment.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, fail("DeleteSettlement failed", err, "settlement_id", req.Msg.SettlementID)
	}
	if err := ledger.Authorize(actor, ledger.ActionDeleteSettlement, ledger.Subject{Settlement: settlement}); err != nil {
		return nil, fail("DeleteSettlement denied", err, "settlement_id", settlement.ID)
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		return nil, fail("DeleteSettlement failed", err, "settlement_id", settlement.ID)
	}
	s.audit.Record(audit.NewEvent(settlement.GroupID, actor.UserID, models.EventSettlementDeleted,
		audit.WithSubject(settlement.ID), audit.WithSummary(fmt.Sprintf("%.2f", settlement.Amount))))

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
