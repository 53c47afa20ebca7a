package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/audit"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// GroupService implements the GroupService RPC interface: group lifecycle,
// membership, balances and settlement suggestions.
type GroupService struct {
	store  storage.Store
	ledger *ledger.Service
	audit  audit.Recorder
}

// NewGroupService creates a GroupService backed by store.
func NewGroupService(store storage.Store, ledgerSvc *ledger.Service, recorder audit.Recorder) *GroupService {
	return &GroupService{store: store, ledger: ledgerSvc, audit: recorder}
}

// authorizedGroup loads a group and checks that actor may perform action on it.
func authorizedGroup(ctx context.Context, store storage.GroupStore, actor ledger.Actor, groupID string, action ledger.Action) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := ledger.Authorize(actor, action, ledger.Subject{Group: group}); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) groupResponse(ctx context.Context, group *models.Group) (api.Group, error) {
	n, err := resolveNames(ctx, s.store, group.Members)
	if err != nil {
		return api.Group{}, err
	}
	return toAPIGroup(group, n), nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: group name is required", ledger.ErrInvalidData)
	}
	return name, nil
}

// CreateGroup creates a group. The caller becomes its creator and first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "members_count", len(req.Msg.MemberIDs))

	name, err := cleanName(req.Msg.Name)
	if err != nil {
		return nil, fail("CreateGroup rejected", err)
	}

	existing, err := s.store.FindGroupByName(ctx, actor.UserID, name)
	if err != nil {
		return nil, fail("CreateGroup failed", err)
	}
	if existing != nil {
		return nil, fail("CreateGroup rejected", fmt.Errorf("%w: %q", errGroupNameTaken, name))
	}

	members := []string{actor.UserID}
	seen := map[string]bool{actor.UserID: true}
	for _, id := range req.Msg.MemberIDs {
		if !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}

	known, err := s.store.GetUsersByIDs(ctx, members)
	if err != nil {
		return nil, fail("CreateGroup failed", err)
	}
	for _, id := range members {
		if _, ok := known[id]; !ok {
			return nil, fail("CreateGroup rejected", fmt.Errorf("%w: unknown user %s", ledger.ErrInvalidData, id))
		}
	}

	group := &models.Group{Name: name, CreatedBy: actor.UserID, Members: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fail("CreateGroup failed", err)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventGroupCreated,
		audit.WithSubject(group.ID), audit.WithSummary(group.Name)))

	slog.Info("Group created", "group_id", group.ID)

	n := make(names, len(known))
	for id, u := range known {
		n[id] = u.DisplayName
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group, n)}), nil
}

// GetGroup returns a group the caller can see.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionViewGroup)
	if err != nil {
		return nil, fail("GetGroup failed", err, "group_id", req.Msg.GroupID)
	}

	out, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, fail("GetGroup failed", err, "group_id", group.ID)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: out}), nil
}

// ListGroups returns the caller's groups with the caller's balance in each.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fail("ListGroups failed", err, "user_id", actor.UserID)
	}

	var memberIDs []string
	for _, g := range groups {
		memberIDs = append(memberIDs, g.Members...)
	}
	n, err := resolveNames(ctx, s.store, memberIDs)
	if err != nil {
		return nil, fail("ListGroups failed", err)
	}

	summaries := make([]api.GroupSummary, 0, len(groups))
	for _, g := range groups {
		b, err := s.ledger.CalculateBalances(ctx, g.ID)
		if err != nil {
			return nil, fail("ListGroups failed", err, "group_id", g.ID)
		}
		own, _ := b.Get(actor.UserID)
		summaries = append(summaries, api.GroupSummary{
			Group:       toAPIGroup(g, n),
			MemberCount: len(g.Members),
			Balance:     ledger.Round2(own),
		})
	}

	slog.Info("ListGroups successful", "user_id", actor.UserID, "count", len(summaries))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: summaries}), nil
}

// RenameGroup changes a group's name.
func (s *GroupService) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionRenameGroup)
	if err != nil {
		return nil, fail("RenameGroup failed", err, "group_id", req.Msg.GroupID)
	}

	name, err := cleanName(req.Msg.Name)
	if err != nil {
		return nil, fail("RenameGroup rejected", err)
	}
	if name != group.Name {
		clash, err := s.store.FindGroupByName(ctx, group.CreatedBy, name)
		if err != nil {
			return nil, fail("RenameGroup failed", err)
		}
		if clash != nil {
			return nil, fail("RenameGroup rejected", fmt.Errorf("%w: %q", errGroupNameTaken, name))
		}
	}

	if err := s.store.RenameGroup(ctx, group.ID, name); err != nil {
		return nil, fail("RenameGroup failed", err, "group_id", group.ID)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventGroupRenamed,
		audit.WithSubject(group.ID), audit.WithSummary(fmt.Sprintf("%s -> %s", group.Name, name))))
	group.Name = name

	out, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, fail("RenameGroup failed", err)
	}
	return connect.NewResponse(&api.RenameGroupResponse{Group: out}), nil
}

// DeleteGroup removes a group and its whole history.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionDeleteGroup)
	if err != nil {
		return nil, fail("DeleteGroup failed", err, "group_id", req.Msg.GroupID)
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, fail("DeleteGroup failed", err, "group_id", group.ID)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventGroupDeleted,
		audit.WithSubject(group.ID), audit.WithSummary(group.Name)))

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMembers adds registered users to a group. Unknown users and existing
// members are skipped.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionManageMembers)
	if err != nil {
		return nil, fail("AddMembers failed", err, "group_id", req.Msg.GroupID)
	}

	known, err := s.store.GetUsersByIDs(ctx, req.Msg.UserIDs)
	if err != nil {
		return nil, fail("AddMembers failed", err)
	}
	var toAdd []string
	for _, id := range req.Msg.UserIDs {
		if _, ok := known[id]; ok && !group.HasMember(id) && !contains(toAdd, id) {
			toAdd = append(toAdd, id)
		}
	}

	added, err := s.store.AddGroupMembers(ctx, group.ID, toAdd)
	if err != nil {
		return nil, fail("AddMembers failed", err, "group_id", group.ID)
	}
	for _, id := range toAdd {
		s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventMemberAdded,
			audit.WithSubject(id), audit.WithSummary(known[id].DisplayName)))
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("AddMembers failed", err)
	}
	out, err := s.groupResponse(ctx, updated)
	if err != nil {
		return nil, fail("AddMembers failed", err)
	}

	slog.Info("Members added", "group_id", group.ID, "added", added, "requested", len(req.Msg.UserIDs))
	return connect.NewResponse(&api.AddMembersResponse{Added: added, Group: out}), nil
}

// RemoveMember removes a member whose balance is settled. Members may remove
// themselves; removing others needs the manage-members permission. The
// creator cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	action := ledger.ActionManageMembers
	if req.Msg.UserID == actor.UserID {
		action = ledger.ActionViewGroup
	}
	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, action)
	if err != nil {
		return nil, fail("RemoveMember failed", err, "group_id", req.Msg.GroupID)
	}

	if !group.HasMember(req.Msg.UserID) {
		return nil, fail("RemoveMember rejected", fmt.Errorf("%w: %s is not a member", ledger.ErrNotFound, req.Msg.UserID))
	}
	if req.Msg.UserID == group.CreatedBy {
		return nil, fail("RemoveMember rejected", fmt.Errorf("%w: the group creator cannot be removed", ledger.ErrInvalidData))
	}

	err = s.store.RemoveGroupMember(ctx, group.ID, req.Msg.UserID, func(h *ledger.GroupHistory) error {
		b := ledger.CalculateBalances(h.Group.Members, h.Expenses, h.Settlements)
		if balance, _ := b.Get(req.Msg.UserID); !ledger.IsSettled(balance) {
			return fmt.Errorf("%w: balance is %.2f", ledger.ErrUnsettled, ledger.Round2(balance))
		}
		return nil
	})
	if err != nil {
		return nil, fail("RemoveMember failed", err, "group_id", group.ID, "user_id", req.Msg.UserID)
	}
	s.audit.Record(audit.NewEvent(group.ID, actor.UserID, models.EventMemberRemoved, audit.WithSubject(req.Msg.UserID)))

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("RemoveMember failed", err)
	}
	out, err := s.groupResponse(ctx, updated)
	if err != nil {
		return nil, fail("RemoveMember failed", err)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{Group: out}), nil
}

// GetBalances returns every member's net balance. A group whose balances
// do not sum to zero is reported as an internal error.
func (s *GroupService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionViewGroup)
	if err != nil {
		return nil, fail("GetBalances failed", err, "group_id", req.Msg.GroupID)
	}

	b, err := s.ledger.VerifiedBalances(ctx, group.ID)
	if err != nil {
		return nil, fail("GetBalances failed", err, "group_id", group.ID)
	}

	n, err := resolveNames(ctx, s.store, b.IDs())
	if err != nil {
		return nil, fail("GetBalances failed", err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{Balances: toAPIBalances(group, b, n)}), nil
}

// SuggestSettlements returns payments that would bring every balance to zero.
func (s *GroupService) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := authorizedGroup(ctx, s.store, actor, req.Msg.GroupID, ledger.ActionViewGroup)
	if err != nil {
		return nil, fail("SuggestSettlements failed", err, "group_id", req.Msg.GroupID)
	}

	suggestions, err := s.ledger.SuggestSettlements(ctx, group.ID)
	if err != nil {
		return nil, fail("SuggestSettlements failed", err, "group_id", group.ID)
	}
	metrics.SuggestedSettlements.Observe(float64(len(suggestions)))

	var ids []string
	for _, sg := range suggestions {
		ids = append(ids, sg.From, sg.To)
	}
	n, err := resolveNames(ctx, s.store, ids)
	if err != nil {
		return nil, fail("SuggestSettlements failed", err)
	}

	payments := make([]api.SuggestedPayment, len(suggestions))
	for i, sg := range suggestions {
		payments[i] = api.SuggestedPayment{
			FromUserID: sg.From,
			FromName:   n.of(sg.From),
			ToUserID:   sg.To,
			ToName:     n.of(sg.To),
			Amount:     sg.Amount,
		}
	}
	return connect.NewResponse(&api.SuggestSettlementsResponse{Payments: payments}), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
