// Package auth defines the contract with the hosted authentication provider
// and verifies the access tokens it issues. The provider owns user identity;
// this service only consumes sessions, events, and the metadata mapping.
package auth

import (
	"context"
	"time"

	"github.com/membership-service/internal/types"
)

// User is the provider-owned identity record as this service sees it.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"metadata"`
}

// Metadata is the mutable metadata mapping attached to a provider user.
// Field names mirror the provider's keys.
type Metadata struct {
	Username         string     `json:"username,omitempty"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	WalletAddress    string     `json:"walletAddress,omitempty"`
	WalletLastSigned *time.Time `json:"wallet_last_signed,omitempty"`
}

// Event is an entry in the provider's auth-state-change stream, delivered to
// this service as webhook posts in emission order.
type Event struct {
	Type types.AuthEventType `json:"event"`
	User User                `json:"user"`
}

// Provider is the server-to-server surface of the hosted auth service.
// Metadata updates are best-effort from the caller's point of view: the
// wallet-linking workflow logs failures here and carries on.
type Provider interface {
	// GetUser fetches the provider's current record for a user.
	GetUser(ctx context.Context, userID string) (*User, error)

	// UpdateUserMetadata merges md into the user's metadata mapping.
	UpdateUserMetadata(ctx context.Context, userID string, md Metadata) error

	// SignOut revokes the user's sessions with the provider.
	SignOut(ctx context.Context, userID string) error
}
