package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

const defaultActivityLimit = 20

// DashboardService implements the DashboardService RPC interface: the
// caller's view across all of their groups.
type DashboardService struct {
	store  storage.Store
	ledger *ledger.Service
}

// NewDashboardService creates a DashboardService backed by store.
func NewDashboardService(store storage.Store, ledgerSvc *ledger.Service) *DashboardService {
	return &DashboardService{store: store, ledger: ledgerSvc}
}

// GetNetBalances returns what the caller owes or is owed per person and group.
func (s *DashboardService) GetNetBalances(ctx context.Context, req *connect.Request[api.GetNetBalancesRequest]) (*connect.Response[api.GetNetBalancesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := s.ledger.UserNetBalancesByPerson(ctx, actor.UserID)
	if err != nil {
		return nil, fail("GetNetBalances failed", err, "user_id", actor.UserID)
	}

	out := make([]api.NetBalance, len(positions))
	for i, p := range positions {
		out[i] = api.NetBalance{
			CounterpartyID:   p.CounterpartyID,
			CounterpartyName: p.CounterpartyName,
			GroupID:          p.GroupID,
			GroupName:        p.GroupName,
			Amount:           p.Amount,
		}
	}

	slog.Info("GetNetBalances successful", "user_id", actor.UserID, "positions", len(out))
	return connect.NewResponse(&api.GetNetBalancesResponse{Balances: out}), nil
}

// GetActivity returns recent events from the caller's groups.
func (s *DashboardService) GetActivity(ctx context.Context, req *connect.Request[api.GetActivityRequest]) (*connect.Response[api.GetActivityResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	groups, err := s.store.ListGroupsForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fail("GetActivity failed", err, "user_id", actor.UserID)
	}
	groupNames := make(map[string]string, len(groups))
	groupIDs := make([]string, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
		groupNames[g.ID] = g.Name
	}

	events, err := s.store.ListEventsByGroups(ctx, groupIDs, limit)
	if err != nil {
		return nil, fail("GetActivity failed", err, "user_id", actor.UserID)
	}

	actorIDs := make([]string, len(events))
	for i, e := range events {
		actorIDs[i] = e.ActorID
	}
	n, err := resolveNames(ctx, s.store, actorIDs)
	if err != nil {
		return nil, fail("GetActivity failed", err)
	}

	out := make([]api.Activity, len(events))
	for i, e := range events {
		out[i] = api.Activity{
			ID:        e.ID,
			GroupID:   e.GroupID,
			GroupName: groupNames[e.GroupID],
			ActorID:   e.ActorID,
			ActorName: n.of(e.ActorID),
			Kind:      e.Kind,
			SubjectID: e.SubjectID,
			Summary:   e.Summary,
			CreatedAt: e.CreatedAt,
		}
	}
	return connect.NewResponse(&api.GetActivityResponse{Activity: out}), nil
}
