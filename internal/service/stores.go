// Package service implements the membership workflows: profile
// reconciliation, wallet linking, NFT status, session state, and the
// read-only catalogs.
package service

import (
	"context"

	"github.com/membership-service/internal/models"
)

// ProfileStore is the persistence surface for member profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, userID string, seed models.ProfileSeed) (*models.Profile, error)
	Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error)
	SetWalletAddress(ctx context.Context, userID string, address *string) (*models.Profile, error)
	SetHasNFT(ctx context.Context, userID string, hasNFT bool) (*models.Profile, error)
	GetByWalletAddress(ctx context.Context, address string) (*models.Profile, error)
}

// NFTStore is the persistence surface for NFT records.
type NFTStore interface {
	Create(ctx context.Context, nft *models.NFT) error
	CountByOwnerAddress(ctx context.Context, address string) (int64, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.NFT, error)
}

// NonceSource issues and consumes single-use signing nonces.
type NonceSource interface {
	Issue(ctx context.Context, address string) (string, error)
	Consume(ctx context.Context, address string) (string, error)
}

// WalletCacheStore is the session-scoped wallet cache. The session manager
// is its only writer; entries are derived from the profile record.
type WalletCacheStore interface {
	Get(ctx context.Context, userID string) (*models.Wallet, error)
	Put(ctx context.Context, userID string, wallet *models.Wallet) error
	Clear(ctx context.Context, userID string) error
}

// CatalogStore lists the read-only catalogs.
type CatalogStore interface {
	ListMerch(ctx context.Context) ([]*models.MerchItem, error)
	ListActiveChallenges(ctx context.Context) ([]*models.Challenge, error)
}

// EventSink receives audit events. Implementations may fail; callers treat
// appends as best-effort and never block member actions on them.
type EventSink interface {
	Append(ctx context.Context, event *models.MemberEvent) error
}
