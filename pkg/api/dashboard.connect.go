package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// DashboardServiceName is the fully-qualified name of the DashboardService service.
const DashboardServiceName = "splitledger.v1.DashboardService"

// Procedure paths, used for routing and in interceptors.
const (
	DashboardServiceGetNetBalancesProcedure = "/splitledger.v1.DashboardService/GetNetBalances"
	DashboardServiceGetActivityProcedure    = "/splitledger.v1.DashboardService/GetActivity"
)

// DashboardServiceClient is a client for the splitledger.v1.DashboardService service.
type DashboardServiceClient interface {
	GetNetBalances(context.Context, *connect.Request[GetNetBalancesRequest]) (*connect.Response[GetNetBalancesResponse], error)
	GetActivity(context.Context, *connect.Request[GetActivityRequest]) (*connect.Response[GetActivityResponse], error)
}

// NewDashboardServiceClient constructs a client for the splitledger.v1.DashboardService service.
// baseURL is the server root, for example http://localhost:8080.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DashboardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &dashboardServiceClient{
		getNetBalances: connect.NewClient[GetNetBalancesRequest, GetNetBalancesResponse](httpClient, baseURL+DashboardServiceGetNetBalancesProcedure, opts...),
		getActivity:    connect.NewClient[GetActivityRequest, GetActivityResponse](httpClient, baseURL+DashboardServiceGetActivityProcedure, opts...),
	}
}

type dashboardServiceClient struct {
	getNetBalances *connect.Client[GetNetBalancesRequest, GetNetBalancesResponse]
	getActivity    *connect.Client[GetActivityRequest, GetActivityResponse]
}

func (c *dashboardServiceClient) GetNetBalances(ctx context.Context, req *connect.Request[GetNetBalancesRequest]) (*connect.Response[GetNetBalancesResponse], error) {
	return c.getNetBalances.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) GetActivity(ctx context.Context, req *connect.Request[GetActivityRequest]) (*connect.Response[GetActivityResponse], error) {
	return c.getActivity.CallUnary(ctx, req)
}

// DashboardServiceHandler is implemented by the server side of splitledger.v1.DashboardService.
type DashboardServiceHandler interface {
	GetNetBalances(context.Context, *connect.Request[GetNetBalancesRequest]) (*connect.Response[GetNetBalancesResponse], error)
	GetActivity(context.Context, *connect.Request[GetActivityRequest]) (*connect.Response[GetActivityResponse], error)
}

// NewDashboardServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	getNetBalancesHandler := connect.NewUnaryHandler(DashboardServiceGetNetBalancesProcedure, svc.GetNetBalances, opts...)
	getActivityHandler := connect.NewUnaryHandler(DashboardServiceGetActivityProcedure, svc.GetActivity, opts...)
	return "/splitledger.v1.DashboardService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DashboardServiceGetNetBalancesProcedure:
			getNetBalancesHandler.ServeHTTP(w, r)
		case DashboardServiceGetActivityProcedure:
			getActivityHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
