package service

import (
	"context"

	"github.com/membership-service/internal/models"
)

// PricedMerchItem is a catalog item with the price the calling member
// actually pays, after any NFT-holder discount.
type PricedMerchItem struct {
	*models.MerchItem
	EffectivePrice float64 `json:"effectivePrice"`
}

// CatalogService serves the read-only merchandise and challenge catalogs.
type CatalogService struct {
	catalog  CatalogStore
	profiles ProfileStore
}

// NewCatalogService creates a catalog service.
func NewCatalogService(catalog CatalogStore, profiles ProfileStore) *CatalogService {
	return &CatalogService{
		catalog:  catalog,
		profiles: profiles,
	}
}

// ListMerch returns in-stock merchandise priced for the given member.
// Anonymous callers (empty userID) see undiscounted prices.
func (s *CatalogService) ListMerch(ctx context.Context, userID string) ([]*PricedMerchItem, error) {
	items, err := s.catalog.ListMerch(ctx)
	if err != nil {
		return nil, err
	}

	hasNFT := false
	if userID != "" {
		profile, err := s.profiles.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			hasNFT = profile.HasNFT
		}
	}

	priced := make([]*PricedMerchItem, 0, len(items))
	for _, item := range items {
		priced = append(priced, &PricedMerchItem{
			MerchItem:      item,
			EffectivePrice: item.EffectivePrice(hasNFT),
		})
	}

	return priced, nil
}

// ListChallenges returns the active community challenges.
func (s *CatalogService) ListChallenges(ctx context.Context) ([]*models.Challenge, error) {
	return s.catalog.ListActiveChallenges(ctx)
}
