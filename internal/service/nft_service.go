package service

import (
	"context"

	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
	"github.com/membership-service/internal/wallet"
)

// OwnershipChecker answers whether a wallet address holds any membership
// NFT. The store-backed implementation is the production binding; an
// external chain indexer can implement the same contract.
type OwnershipChecker interface {
	OwnsAny(ctx context.Context, address string) (bool, error)
}

// storeOwnershipChecker checks ownership against local NFT records.
type storeOwnershipChecker struct {
	nfts NFTStore
}

func (c *storeOwnershipChecker) OwnsAny(ctx context.Context, address string) (bool, error) {
	count, err := c.nfts.CountByOwnerAddress(ctx, address)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// NFTService maintains NFT records and the profile's has_nft flag.
type NFTService struct {
	nfts     NFTStore
	profiles ProfileStore
	checker  OwnershipChecker
	logger   *logging.Logger
}

// NewNFTService creates an NFT service backed by local NFT records.
func NewNFTService(nfts NFTStore, profiles ProfileStore, logger *logging.Logger) *NFTService {
	return &NFTService{
		nfts:     nfts,
		profiles: profiles,
		checker:  &storeOwnershipChecker{nfts: nfts},
		logger:   logger,
	}
}

// WithOwnershipChecker overrides the ownership lookup.
func (s *NFTService) WithOwnershipChecker(checker OwnershipChecker) *NFTService {
	s.checker = checker
	return s
}

// CheckAndUpdateStatus looks up whether address holds a membership NFT and
// writes the outcome to the profile's has_nft flag. The lookup is
// deterministic; the same address always yields the same answer for the
// same ownership records. An empty address always records false.
func (s *NFTService) CheckAndUpdateStatus(ctx context.Context, userID, address string) (*models.Profile, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "user ID is required")
	}

	owns := false
	if address != "" {
		var err error
		owns, err = s.checker.OwnsAny(ctx, address)
		if err != nil {
			return nil, err
		}
	}

	return s.profiles.SetHasNFT(ctx, userID, owns)
}

// Mint creates a membership NFT record owned by the caller's linked wallet
// and refreshes the profile's has_nft flag. Fails when no wallet is linked.
func (s *NFTService) Mint(ctx context.Context, userID string) (*models.NFT, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "authentication required")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, types.NewServiceError(types.CodeNotFound, "profile not found").WithDetail("user_id", userID)
	}
	if profile.WalletAddress == nil || *profile.WalletAddress == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "no wallet linked; link a wallet before minting")
	}

	nft := &models.NFT{
		UserID:       userID,
		Name:         models.MembershipNFTName,
		Description:  models.MembershipNFTDescription,
		ImageURL:     models.MembershipNFTImageURL,
		OwnerAddress: wallet.Normalize(*profile.WalletAddress),
	}
	if err := s.nfts.Create(ctx, nft); err != nil {
		return nil, err
	}

	if _, err := s.profiles.SetHasNFT(ctx, userID, true); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"nft_id":  nft.ID,
		"owner":   nft.OwnerAddress,
	}).Info("Minted membership NFT")

	return nft, nil
}

// List returns the user's NFT records, newest first.
func (s *NFTService) List(ctx context.Context, userID string) ([]*models.NFT, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "authentication required")
	}
	return s.nfts.ListByUserID(ctx, userID)
}
