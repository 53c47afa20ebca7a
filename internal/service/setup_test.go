package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/server"
	"github.com/mmynk/splitledger/internal/storage/sqlstore"
	"github.com/mmynk/splitledger/pkg/api"
)

// syncRecorder writes audit events inline so tests can read them back at once.
type syncRecorder struct {
	store *sqlstore.Store
}

func (r syncRecorder) Record(e models.Event) {
	_ = r.store.SaveEvent(context.Background(), e)
}

type testEnv struct {
	dbPath    string
	store     *sqlstore.Store
	auth      api.AuthServiceClient
	userDir   api.UserServiceClient
	groups    api.GroupServiceClient
	expenses  api.ExpenseServiceClient
	dashboard api.DashboardServiceClient
}

// setupTestServer starts the full handler stack over a temp SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlstore.New(context.Background(), sqlstore.DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	handler := server.New(server.Deps{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store, bcrypt.MinCost),
		JWT:           auth.NewJWTManager("test-secret-0123456789", time.Hour),
		Audit:         syncRecorder{store: store},
		CORSOrigins:   []string{"*"},
	})
	srv := httptest.NewServer(handler)

	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})

	return &testEnv{
		dbPath:    dbPath,
		store:     store,
		auth:      api.NewAuthServiceClient(http.DefaultClient, srv.URL),
		userDir:   api.NewUserServiceClient(http.DefaultClient, srv.URL),
		groups:    api.NewGroupServiceClient(http.DefaultClient, srv.URL),
		expenses:  api.NewExpenseServiceClient(http.DefaultClient, srv.URL),
		dashboard: api.NewDashboardServiceClient(http.DefaultClient, srv.URL),
	}
}

type testUser struct {
	ID    string
	Name  string
	Token string
}

func (e *testEnv) register(t *testing.T, name string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register %s failed: %v", name, err)
	}
	return testUser{ID: resp.Msg.User.ID, Name: name, Token: resp.Msg.Token}
}

// users registers an admin account first, so the returned users are
// ordinary members.
func (e *testEnv) users(t *testing.T, names ...string) []testUser {
	t.Helper()
	e.register(t, "admin")
	out := make([]testUser, len(names))
	for i, n := range names {
		out[i] = e.register(t, n)
	}
	return out
}

func (e *testEnv) createGroup(t *testing.T, owner testUser, name string, members ...testUser) api.Group {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	resp, err := e.groups.CreateGroup(context.Background(), as(owner, &api.CreateGroupRequest{Name: name, MemberIDs: ids}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func (e *testEnv) balances(t *testing.T, u testUser, groupID string) map[string]float64 {
	t.Helper()
	resp, err := e.groups.GetBalances(context.Background(), as(u, &api.GetBalancesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	out := make(map[string]float64)
	for _, b := range resp.Msg.Balances {
		out[b.UserID] = b.Amount
	}
	return out
}

// as builds a request authenticated as u.
func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != code {
		t.Fatalf("code: expected %v, got %v (%v)", code, connectErr.Code(), err)
	}
}
