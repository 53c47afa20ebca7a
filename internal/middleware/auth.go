// Package middleware holds the Connect interceptors shared by every service.
package middleware

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
)

type contextKey struct{}

var actorKey contextKey

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor ledger.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated actor stored in ctx.
func ActorFrom(ctx context.Context) (ledger.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(ledger.Actor)
	return actor, ok && actor.UserID != ""
}

// GetUserID returns the authenticated user's ID, or "" before authentication.
func GetUserID(ctx context.Context) string {
	actor, _ := ActorFrom(ctx)
	return actor.UserID
}

// RequireAuth validates the bearer token on every call except the listed
// public procedures, and stores the caller as a ledger.Actor in the context.
func RequireAuth(jwtManager *auth.JWTManager, publicProcedures ...string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if slices.Contains(publicProcedures, procedure) {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				slog.Warn("missing token", "procedure", procedure)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				slog.Warn("malformed authorization header", "procedure", procedure)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				slog.Warn("token rejected", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			ctx = WithActor(ctx, ledger.Actor{UserID: claims.UserID, Role: claims.Role})
			return next(ctx, req)
		}
	}
}
