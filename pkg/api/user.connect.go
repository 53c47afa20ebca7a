package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// UserServiceName is the fully-qualified name of the UserService service.
const UserServiceName = "splitledger.v1.UserService"

// Procedure paths, used for routing and in interceptors.
const (
	UserServiceListUsersProcedure  = "/splitledger.v1.UserService/ListUsers"
	UserServiceCreateUserProcedure = "/splitledger.v1.UserService/CreateUser"
)

// UserServiceClient is a client for the splitledger.v1.UserService service.
type UserServiceClient interface {
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
}

// NewUserServiceClient constructs a client for the splitledger.v1.UserService service.
// baseURL is the server root, for example http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &userServiceClient{
		listUsers:  connect.NewClient[ListUsersRequest, ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
		createUser: connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
	}
}

type userServiceClient struct {
	listUsers  *connect.Client[ListUsersRequest, ListUsersResponse]
	createUser *connect.Client[CreateUserRequest, CreateUserResponse]
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *userServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

// UserServiceHandler is implemented by the server side of splitledger.v1.UserService.
type UserServiceHandler interface {
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	listUsersHandler := connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...)
	createUserHandler := connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...)
	return "/splitledger.v1.UserService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceListUsersProcedure:
			listUsersHandler.ServeHTTP(w, r)
		case UserServiceCreateUserProcedure:
			createUserHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
