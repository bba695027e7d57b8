// Package auth implements account registration, password login and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/ecosplit/internal/models"
)

// Authenticator abstracts how users prove who they are, so the service layer does not
// depend on passwords specifically.
type Authenticator interface {
	// Register creates a new user account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, username, displayName, email, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the implementation's requirements.
	ValidateCredential(credential string) error
}
