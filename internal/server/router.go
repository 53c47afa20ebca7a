// Package server assembles the HTTP surface: Connect services, interceptors
// and the metrics endpoint.
package server

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/audit"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	interceptors "github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// Deps are the collaborators the handlers are built from.
type Deps struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Audit         audit.Recorder
	CORSOrigins   []string
}

// PublicProcedures can be called without a token.
var PublicProcedures = []string{
	api.AuthServiceRegisterProcedure,
	api.AuthServiceLoginProcedure,
}

// New returns the root handler.
func New(d Deps) http.Handler {
	recorder := d.Audit
	if recorder == nil {
		recorder = audit.Discard{}
	}
	ledgerSvc := ledger.NewService(d.Store)

	opts := connect.WithInterceptors(
		interceptors.MetricsInterceptor(),
		interceptors.RequireAuth(d.JWT, PublicProcedures...),
		interceptors.LoggingInterceptor(),
		interceptors.ValidationInterceptor(),
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))

	mount := func(path string, h http.Handler) {
		router.Handle(path+"*", h)
	}
	mount(api.NewAuthServiceHandler(service.NewAuthService(d.Authenticator, d.JWT, d.Store, slog.Default()), opts))
	mount(api.NewUserServiceHandler(service.NewUserService(d.Store, d.Authenticator), opts))
	mount(api.NewGroupServiceHandler(service.NewGroupService(d.Store, ledgerSvc, recorder), opts))
	mount(api.NewExpenseServiceHandler(service.NewExpenseService(d.Store, recorder), opts))
	mount(api.NewDashboardServiceHandler(service.NewDashboardService(d.Store, ledgerSvc), opts))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}
