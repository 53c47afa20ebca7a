package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// UserService implements the UserService RPC interface: the user directory
// and admin account creation.
type UserService struct {
	store         storage.Store
	authenticator auth.Authenticator
}

// NewUserService creates a UserService backed by store.
func NewUserService(store storage.Store, authenticator auth.Authenticator) *UserService {
	return &UserService{store: store, authenticator: authenticator}
}

// ListUsers returns all users, or only those outside ExcludeGroupID when set.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	var exclude *models.Group
	if req.Msg.ExcludeGroupID != "" {
		exclude, err = authorizedGroup(ctx, s.store, actor, req.Msg.ExcludeGroupID, ledger.ActionViewGroup)
		if err != nil {
			return nil, fail("ListUsers failed", err, "group_id", req.Msg.ExcludeGroupID)
		}
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fail("ListUsers failed", err)
	}

	out := make([]api.User, 0, len(users))
	for _, u := range users {
		if exclude != nil && exclude.HasMember(u.ID) {
			continue
		}
		out = append(out, toAPIUser(u))
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// CreateUser registers an account on someone else's behalf. Admin only.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := ledger.Authorize(actor, ledger.ActionCreateUser, ledger.Subject{}); err != nil {
		return nil, fail("CreateUser denied", err, "user_id", actor.UserID)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		return nil, fail("CreateUser failed", err, "email", req.Msg.Email)
	}

	slog.Info("User created by admin", "user_id", user.ID, "admin_id", actor.UserID)
	return connect.NewResponse(&api.CreateUserResponse{User: toAPIUser(user)}), nil
}
