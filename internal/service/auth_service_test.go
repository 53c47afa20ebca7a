package service_test

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	first, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "Root@Example.com", DisplayName: "Root", Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if first.Msg.User.Role != models.RoleAdmin {
		t.Errorf("first user role: expected %q, got %q", models.RoleAdmin, first.Msg.User.Role)
	}
	if first.Msg.User.Email != "root@example.com" {
		t.Errorf("email: expected normalized address, got %q", first.Msg.User.Email)
	}
	if first.Msg.Token == "" {
		t.Error("expected a token")
	}

	second := env.register(t, "alice")
	me, err := env.auth.GetCurrentUser(ctx, as(second, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.Role != models.RoleUser {
		t.Errorf("second user role: expected %q, got %q", models.RoleUser, me.Msg.User.Role)
	}
	if me.Msg.User.ID != second.ID {
		t.Errorf("GetCurrentUser: expected %s, got %s", second.ID, me.Msg.User.ID)
	}
}

func TestRegister_Errors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "alice")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "ALICE@example.com", DisplayName: "A", Password: "password123"}, connect.CodeAlreadyExists},
		{"short password", &api.RegisterRequest{Email: "b@example.com", DisplayName: "B", Password: "short"}, connect.CodeInvalidArgument},
		{"bad email", &api.RegisterRequest{Email: "not-an-email", DisplayName: "B", Password: "password123"}, connect.CodeInvalidArgument},
		{"blank name", &api.RegisterRequest{Email: "b@example.com", DisplayName: "   ", Password: "password123"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
			wantCode(t, err, tt.code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "password123"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.User.ID != alice.ID {
		t.Errorf("Login user: expected %s, got %s", alice.ID, resp.Msg.User.ID)
	}

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}))
	wantCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: "password123"}))
	wantCode(t, err, connect.CodeUnauthenticated)
}

func TestProtectedProcedures_RequireToken(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)

	_, err = env.groups.ListGroups(ctx, as(testUser{Token: "garbage"}, &api.ListGroupsRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)
}
