package auth

import (
	"context"

	"github.com/snapsplit/snapsplit/internal/models"
)

// Authenticator abstracts the credential scheme so the HTTP layer doesn't
// care whether accounts authenticate with passwords or something else later.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the user if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against scheme requirements.
	ValidateCredential(credential string) error
}
