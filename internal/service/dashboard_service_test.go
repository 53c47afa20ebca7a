package service_test

import (
	"context"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// alice paid 100 split with bob in one group and owes carol 20
// from another.
func TestGetNetBalances(t *testing.T) {
	env := setupTestServer(t)
	u := env.users(t, "alice", "bob", "carol")
	alice, bob, carol := u[0], u[1], u[2]
	ctx := context.Background()

	flat := env.createGroup(t, alice, "Flat", bob)
	trip := env.createGroup(t, carol, "Trip", alice)

	if _, err := env.expenses.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{GroupID: flat.ID, Amount: 100, PayerID: alice.ID})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := env.expenses.CreateExpense(ctx, as(carol, &api.CreateExpenseRequest{GroupID: trip.ID, Amount: 40, PayerID: carol.ID})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	resp, err := env.dashboard.GetNetBalances(ctx, as(alice, &api.GetNetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetNetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(resp.Msg.Balances), resp.Msg.Balances)
	}

	want := map[string]api.NetBalance{
		bob.ID:   {CounterpartyID: bob.ID, CounterpartyName: "bob", GroupID: flat.ID, GroupName: "Flat", Amount: 50},
		carol.ID: {CounterpartyID: carol.ID, CounterpartyName: "carol", GroupID: trip.ID, GroupName: "Trip", Amount: -20},
	}
	for _, row := range resp.Msg.Balances {
		if row != want[row.CounterpartyID] {
			t.Errorf("row: expected %+v, got %+v", want[row.CounterpartyID], row)
		}
	}

	// A settled position drops out.
	if _, err := env.expenses.CreateSettlement(ctx, as(bob, &api.CreateSettlementRequest{
		GroupID: flat.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: 50,
	})); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	resp, err = env.dashboard.GetNetBalances(ctx, as(alice, &api.GetNetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetNetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 1 || resp.Msg.Balances[0].CounterpartyID != carol.ID {
		t.Errorf("expected only carol to remain, got %+v", resp.Msg.Balances)
	}
}

func TestGetNetBalances_NoActivity(t *testing.T) {
	env := setupTestServer(t)
	alice := env.users(t, "alice")[0]

	resp, err := env.dashboard.GetNetBalances(context.Background(), as(alice, &api.GetNetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetNetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 0 {
		t.Errorf("expected no rows, got %d", len(resp.Msg.Balances))
	}
}

func TestGetActivity(t *testing.T) {
	env := setupTestServer(t)
	u := env.users(t, "alice", "bob", "dave")
	alice, bob, dave := u[0], u[1], u[2]
	ctx := context.Background()

	flat := env.createGroup(t, alice, "Flat", bob)
	if _, err := env.expenses.CreateExpense(ctx, as(bob, &api.CreateExpenseRequest{
		GroupID: flat.ID, Amount: 12.5, PayerID: bob.ID, Description: "Milk",
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	env.createGroup(t, dave, "Elsewhere")

	resp, err := env.dashboard.GetActivity(ctx, as(alice, &api.GetActivityRequest{}))
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if len(resp.Msg.Activity) != 2 {
		t.Fatalf("expected 2 events, got %d", len(resp.Msg.Activity))
	}

	kinds := make(map[string]api.Activity)
	for _, a := range resp.Msg.Activity {
		if a.GroupName != "Flat" {
			t.Errorf("event from foreign group %q", a.GroupName)
		}
		kinds[a.Kind] = a
	}
	expense, ok := kinds[models.EventExpenseCreated]
	if !ok {
		t.Fatalf("missing %s event", models.EventExpenseCreated)
	}
	if expense.ActorName != "bob" || expense.Summary != "Milk (12.50)" {
		t.Errorf("unexpected expense event %+v", expense)
	}
	if _, ok := kinds[models.EventGroupCreated]; !ok {
		t.Errorf("missing %s event", models.EventGroupCreated)
	}

	limited, err := env.dashboard.GetActivity(ctx, as(alice, &api.GetActivityRequest{Limit: 1}))
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if len(limited.Msg.Activity) != 1 {
		t.Errorf("limit: expected 1 event, got %d", len(limited.Msg.Activity))
	}

	_, err = env.dashboard.GetActivity(ctx, as(alice, &api.GetActivityRequest{Limit: 500}))
	if err == nil {
		t.Error("expected limit above 100 to be rejected")
	}
}
