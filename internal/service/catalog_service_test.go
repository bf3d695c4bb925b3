package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membership-service/internal/models"
)

type fakeCatalogStore struct {
	merch      []*models.MerchItem
	challenges []*models.Challenge
}

func (s *fakeCatalogStore) ListMerch(ctx context.Context) ([]*models.MerchItem, error) {
	return s.merch, nil
}

func (s *fakeCatalogStore) ListActiveChallenges(ctx context.Context) ([]*models.Challenge, error) {
	return s.challenges, nil
}

func TestCatalogService_ListMerchAppliesDiscountForHolders(t *testing.T) {
	profiles := newFakeProfileStore()
	catalog := &fakeCatalogStore{
		merch: []*models.MerchItem{
			{ID: "m1", Name: "Tee", Price: 100, NFTDiscount: true, DiscountPercentage: 20},
			{ID: "m2", Name: "Cap", Price: 50, NFTDiscount: false, DiscountPercentage: 20},
		},
	}
	svc := NewCatalogService(catalog, profiles)
	ctx := context.Background()

	_, err := profiles.Create(ctx, "holder", models.ProfileSeed{Username: "alice"})
	require.NoError(t, err)
	_, err = profiles.SetHasNFT(ctx, "holder", true)
	require.NoError(t, err)

	priced, err := svc.ListMerch(ctx, "holder")
	require.NoError(t, err)
	require.Len(t, priced, 2)

	assert.Equal(t, 80.0, priced[0].EffectivePrice, "discounted item for NFT holder")
	assert.Equal(t, 50.0, priced[1].EffectivePrice, "item without NFT discount")
}

func TestCatalogService_ListMerchAnonymous(t *testing.T) {
	catalog := &fakeCatalogStore{
		merch: []*models.MerchItem{
			{ID: "m1", Name: "Tee", Price: 100, NFTDiscount: true, DiscountPercentage: 20},
		},
	}
	svc := NewCatalogService(catalog, newFakeProfileStore())

	priced, err := svc.ListMerch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.Equal(t, 100.0, priced[0].EffectivePrice)
}

func TestCatalogService_ListChallenges(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalogStore{
		challenges: []*models.Challenge{
			{ID: "c1", Title: "Stream party", Points: 100, StartDate: now, Status: "active"},
		},
	}
	svc := NewCatalogService(catalog, newFakeProfileStore())

	challenges, err := svc.ListChallenges(context.Background())
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	assert.Equal(t, "Stream party", challenges[0].Title)
}
