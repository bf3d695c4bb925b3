package service

import (
	"context"
	"time"

	"github.com/membership-service/internal/auth"
	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
	"github.com/membership-service/internal/wallet"
)

// LinkInput carries the wallet provider artifacts submitted by the client
// when linking a wallet. ProviderErrorCode is set when the client reports
// that the wallet provider refused to sign.
type LinkInput struct {
	Address           string `json:"address"`
	Signature         string `json:"signature"`
	WalletName        string `json:"walletName"`
	ChainID           string `json:"chainId"`
	ProviderErrorCode int    `json:"providerErrorCode,omitempty"`
}

// WalletLinkService coordinates the wallet linking workflow: challenge
// nonces, signature verification, uniqueness enforcement, and the follow-up
// NFT status refresh. The profile record is the single source of truth for
// the linked address.
type WalletLinkService struct {
	profiles       ProfileStore
	ensurer        *ProfileService
	nfts           *NFTService
	nonces         NonceSource
	provider       auth.Provider
	events         EventSink
	challengeLabel string
	logger         *logging.Logger
}

// NewWalletLinkService creates a wallet link service.
func NewWalletLinkService(
	profiles ProfileStore,
	ensurer *ProfileService,
	nfts *NFTService,
	nonces NonceSource,
	provider auth.Provider,
	events EventSink,
	challengeLabel string,
	logger *logging.Logger,
) *WalletLinkService {
	return &WalletLinkService{
		profiles:       profiles,
		ensurer:        ensurer,
		nfts:           nfts,
		nonces:         nonces,
		provider:       provider,
		events:         events,
		challengeLabel: challengeLabel,
		logger:         logger,
	}
}

// Challenge issues a fresh single-use nonce for an address and returns the
// exact message the wallet must sign.
func (s *WalletLinkService) Challenge(ctx context.Context, address string) (nonce, message string, err error) {
	if !wallet.ValidAddress(address) {
		return "", "", types.NewServiceError(types.CodeInvalidInput, "invalid wallet address").WithDetail("address", address)
	}

	nonce, err = s.nonces.Issue(ctx, address)
	if err != nil {
		return "", "", err
	}

	return nonce, wallet.ChallengeMessage(s.challengeLabel, nonce), nil
}

// Link verifies the signed challenge and records the wallet address on the
// user's profile. Verification failure leaves the profile unchanged. A
// wallet already linked to a different user is rejected.
func (s *WalletLinkService) Link(ctx context.Context, userID string, in LinkInput) (*models.Profile, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "authentication required")
	}
	if in.ProviderErrorCode == wallet.ProviderErrUserRejected {
		return nil, types.NewServiceError(types.CodeUserRejected, "wallet provider request was rejected by the user")
	}
	if !wallet.ValidAddress(in.Address) {
		return nil, types.NewServiceError(types.CodeInvalidInput, "invalid wallet address").WithDetail("address", in.Address)
	}
	if in.Signature == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "signature is required")
	}

	nonce, err := s.nonces.Consume(ctx, in.Address)
	if err != nil {
		return nil, err
	}
	if nonce == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "no outstanding signing nonce for address").WithDetail("address", in.Address)
	}

	message := wallet.ChallengeMessage(s.challengeLabel, nonce)
	if err := wallet.Verify(message, in.Signature, in.Address); err != nil {
		return nil, err
	}

	owner, err := s.profiles.GetByWalletAddress(ctx, in.Address)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != userID {
		return nil, types.NewServiceError(types.CodeWalletAlreadyLinked, "wallet is already linked to another account").
			WithDetail("address", wallet.Normalize(in.Address))
	}

	if _, err := s.ensurer.Ensure(ctx, userID, ""); err != nil {
		return nil, err
	}

	address := wallet.Normalize(in.Address)
	updated, err := s.profiles.SetWalletAddress(ctx, userID, &address)
	if err != nil {
		return nil, err
	}

	// The profile write above is authoritative; everything after it is
	// best-effort and must not fail the link.
	now := time.Now().UTC()
	if err := s.provider.UpdateUserMetadata(ctx, userID, auth.Metadata{
		WalletAddress:    address,
		WalletLastSigned: &now,
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to sync wallet address to auth provider")
	}

	if refreshed, err := s.nfts.CheckAndUpdateStatus(ctx, userID, address); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("NFT status check failed after wallet link")
	} else {
		updated = refreshed
	}

	s.audit(ctx, &models.MemberEvent{
		UserID:        userID,
		Type:          types.EventWalletLinked,
		WalletAddress: address,
	})

	return updated, nil
}

// Unlink removes the wallet address from the profile and clears the NFT
// flag. Membership NFT status cannot outlive the wallet it was granted for.
func (s *WalletLinkService) Unlink(ctx context.Context, userID string) (*models.Profile, error) {
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

	previous := ""
	if profile.WalletAddress != nil {
		previous = *profile.WalletAddress
	}

	if _, err := s.profiles.SetWalletAddress(ctx, userID, nil); err != nil {
		return nil, err
	}
	updated, err := s.profiles.SetHasNFT(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	if err := s.provider.UpdateUserMetadata(ctx, userID, auth.Metadata{WalletAddress: ""}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to clear wallet address at auth provider")
	}

	s.audit(ctx, &models.MemberEvent{
		UserID:        userID,
		Type:          types.EventWalletUnlinked,
		WalletAddress: previous,
	})

	return updated, nil
}

func (s *WalletLinkService) audit(ctx context.Context, event *models.MemberEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", string(event.Type)).Warn("Failed to append audit event")
	}
}
