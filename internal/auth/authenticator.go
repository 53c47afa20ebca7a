// Package auth issues and checks credentials for ledger users.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers accounts and verifies credentials.
// The password implementation is the only one today.
type Authenticator interface {
	// Register creates an account. The first account ever registered is an admin.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credentials match.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential's format before it is stored.
	ValidateCredential(credential string) error
}
