package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "splitledger.v1.GroupService"

// Procedure paths, used for routing and in interceptors.
const (
	GroupServiceCreateGroupProcedure        = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure           = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure         = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceRenameGroupProcedure        = "/splitledger.v1.GroupService/RenameGroup"
	GroupServiceDeleteGroupProcedure        = "/splitledger.v1.GroupService/DeleteGroup"
	GroupServiceAddMembersProcedure         = "/splitledger.v1.GroupService/AddMembers"
	GroupServiceRemoveMemberProcedure       = "/splitledger.v1.GroupService/RemoveMember"
	GroupServiceGetBalancesProcedure        = "/splitledger.v1.GroupService/GetBalances"
	GroupServiceSuggestSettlementsProcedure = "/splitledger.v1.GroupService/SuggestSettlements"
)

// GroupServiceClient is a client for the splitledger.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	RenameGroup(context.Context, *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error)
}

// NewGroupServiceClient constructs a client for the splitledger.v1.GroupService service.
// baseURL is the server root, for example http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &groupServiceClient{
		createGroup:        connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:           connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:         connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		renameGroup:        connect.NewClient[RenameGroupRequest, RenameGroupResponse](httpClient, baseURL+GroupServiceRenameGroupProcedure, opts...),
		deleteGroup:        connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		addMembers:         connect.NewClient[AddMembersRequest, AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
		removeMember:       connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		getBalances:        connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+GroupServiceGetBalancesProcedure, opts...),
		suggestSettlements: connect.NewClient[SuggestSettlementsRequest, SuggestSettlementsResponse](httpClient, baseURL+GroupServiceSuggestSettlementsProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup        *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup           *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups         *connect.Client[ListGroupsRequest, ListGroupsResponse]
	renameGroup        *connect.Client[RenameGroupRequest, RenameGroupResponse]
	deleteGroup        *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	addMembers         *connect.Client[AddMembersRequest, AddMembersResponse]
	removeMember       *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
	getBalances        *connect.Client[GetBalancesRequest, GetBalancesResponse]
	suggestSettlements *connect.Client[SuggestSettlementsRequest, SuggestSettlementsResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) RenameGroup(ctx context.Context, req *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error) {
	return c.renameGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) SuggestSettlements(ctx context.Context, req *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error) {
	return c.suggestSettlements.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of splitledger.v1.GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	RenameGroup(context.Context, *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	createGroupHandler := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroupHandler := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroupsHandler := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	renameGroupHandler := connect.NewUnaryHandler(GroupServiceRenameGroupProcedure, svc.RenameGroup, opts...)
	deleteGroupHandler := connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...)
	addMembersHandler := connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...)
	removeMemberHandler := connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	getBalancesHandler := connect.NewUnaryHandler(GroupServiceGetBalancesProcedure, svc.GetBalances, opts...)
	suggestSettlementsHandler := connect.NewUnaryHandler(GroupServiceSuggestSettlementsProcedure, svc.SuggestSettlements, opts...)
	return "/splitledger.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case GroupServiceRenameGroupProcedure:
			renameGroupHandler.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			deleteGroupHandler.ServeHTTP(w, r)
		case GroupServiceAddMembersProcedure:
			addMembersHandler.ServeHTTP(w, r)
		case GroupServiceRemoveMemberProcedure:
			removeMemberHandler.ServeHTTP(w, r)
		case GroupServiceGetBalancesProcedure:
			getBalancesHandler.ServeHTTP(w, r)
		case GroupServiceSuggestSettlementsProcedure:
			suggestSettlementsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
