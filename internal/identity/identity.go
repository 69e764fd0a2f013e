// Package identity describes the authentication provider the learning store syncs through.
package identity

import (
	"context"
)

//go:generate mockgen -source=identity.go -destination=../mocks/identity/mock_client.go -package=mock_identity

// User is the signed-in user as reported by the identity provider.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Client reads and updates the signed-in user.
type Client interface {
	// CurrentUser returns nil without an error when nobody is signed in.
	CurrentUser(ctx context.Context) (*User, error)
	// UpdateUserMetadata replaces the user's metadata bag with metadata.
	UpdateUserMetadata(ctx context.Context, metadata map[string]any) (*User, error)
}
