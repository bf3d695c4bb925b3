package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
)

func TestNFTService_CheckAndUpdateStatusIsDeterministic(t *testing.T) {
	profiles := newFakeProfileStore()
	nfts := &fakeNFTStore{}
	svc := NewNFTService(nfts, profiles, testLogger())
	ctx := context.Background()

	_, err := profiles.Create(ctx, "user-1", models.ProfileSeed{Username: "alice"})
	require.NoError(t, err)

	err = nfts.Create(ctx, &models.NFT{UserID: "user-1", OwnerAddress: "0xABCDEF0123456789abcdef0123456789ABCDEF01"})
	require.NoError(t, err)

	// Same address, any casing, always yields the same answer.
	for i := 0; i < 3; i++ {
		profile, err := svc.CheckAndUpdateStatus(ctx, "user-1", "0xabcdef0123456789ABCDEF0123456789abcdef01")
		require.NoError(t, err)
		assert.True(t, profile.HasNFT)
	}
}

func TestNFTService_CheckAndUpdateStatusNoOwnership(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := NewNFTService(&fakeNFTStore{}, profiles, testLogger())
	ctx := context.Background()

	_, err := profiles.Create(ctx, "user-1", models.ProfileSeed{Username: "alice"})
	require.NoError(t, err)
	_, err = profiles.SetHasNFT(ctx, "user-1", true)
	require.NoError(t, err)

	profile, err := svc.CheckAndUpdateStatus(ctx, "user-1", "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.False(t, profile.HasNFT, "stale flag must be overwritten")
}

func TestNFTService_CheckAndUpdateStatusEmptyAddress(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := NewNFTService(&fakeNFTStore{}, profiles, testLogger())
	ctx := context.Background()

	_, err := profiles.Create(ctx, "user-1", models.ProfileSeed{Username: "alice"})
	require.NoError(t, err)
	_, err = profiles.SetHasNFT(ctx, "user-1", true)
	require.NoError(t, err)

	profile, err := svc.CheckAndUpdateStatus(ctx, "user-1", "")
	require.NoError(t, err)
	assert.False(t, profile.HasNFT)
}

func TestNFTService_MintRequiresLinkedWallet(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := NewNFTService(&fakeNFTStore{}, profiles, testLogger())
	ctx := context.Background()

	_, err := profiles.Create(ctx, "user-1", models.ProfileSeed{Username: "alice"})
	require.NoError(t, err)

	_, err = svc.Mint(ctx, "user-1")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CodeInvalidInput))
}

func TestNFTService_MintSetsHasNFT(t *testing.T) {
	profiles := newFakeProfileStore()
	nfts := &fakeNFTStore{}
	svc := NewNFTService(nfts, profiles, testLogger())
	ctx := context.Background()

	address := "0xAbCdEf0123456789abcdef0123456789abcdef01"
	_, err := profiles.Create(ctx, "user-1", models.ProfileSeed{Username: "alice", WalletAddress: &address})
	require.NoError(t, err)

	nft, err := svc.Mint(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.MembershipNFTName, nft.Name)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", nft.OwnerAddress)

	profile, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, profile.HasNFT)

	listed, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, nft.ID, listed[0].ID)
}
