package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/membership-service/internal/auth"
	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelError, logging.FormatText)
}

// fakeProfileStore is an in-memory ProfileStore with the same contract as
// the Postgres repository: absent rows read as nil, creation is idempotent,
// wallet addresses are stored lowercase.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	failAll  bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*models.Profile)}
}

func (s *fakeProfileStore) storeErr() error {
	return types.NewServiceError(types.CodeStoreError, "store unavailable")
}

func (s *fakeProfileStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, s.storeErr()
	}
	if p, ok := s.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeProfileStore) Create(ctx context.Context, userID string, seed models.ProfileSeed) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, s.storeErr()
	}
	if p, ok := s.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	now := time.Now().UTC()
	p := &models.Profile{
		ID:            userID,
		Username:      seed.Username,
		Email:         seed.Email,
		AvatarURL:     seed.AvatarURL,
		Notifications: models.DefaultNotificationPreferences(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if seed.WalletAddress != nil {
		lower := strings.ToLower(*seed.WalletAddress)
		p.WalletAddress = &lower
	}
	s.profiles[userID] = p
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, types.NewServiceError(types.CodeNotFound, "profile not found")
	}
	if patch.Username != nil {
		p.Username = *patch.Username
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = *patch.AvatarURL
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Notifications != nil {
		p.Notifications = *patch.Notifications
	}
	p.UpdatedAt = time.Now().UTC()
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) SetWalletAddress(ctx context.Context, userID string, address *string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, types.NewServiceError(types.CodeNotFound, "profile not found")
	}
	if address == nil {
		p.WalletAddress = nil
	} else {
		lower := strings.ToLower(*address)
		p.WalletAddress = &lower
	}
	p.UpdatedAt = time.Now().UTC()
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) SetHasNFT(ctx context.Context, userID string, hasNFT bool) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, types.NewServiceError(types.CodeNotFound, "profile not found")
	}
	p.HasNFT = hasNFT
	p.UpdatedAt = time.Now().UTC()
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) GetByWalletAddress(ctx context.Context, address string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.WalletAddress != nil && strings.EqualFold(*p.WalletAddress, address) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// fakeNFTStore is an in-memory NFTStore with case-insensitive owner lookup.
type fakeNFTStore struct {
	mu   sync.Mutex
	nfts []*models.NFT
}

func (s *fakeNFTStore) Create(ctx context.Context, nft *models.NFT) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *nft
	stored.ID = "nft-" + randomHex(4)
	stored.OwnerAddress = strings.ToLower(stored.OwnerAddress)
	stored.CreatedAt = time.Now().UTC()
	s.nfts = append(s.nfts, &stored)
	*nft = stored
	return nil
}

func (s *fakeNFTStore) CountByOwnerAddress(ctx context.Context, address string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.nfts {
		if strings.EqualFold(n.OwnerAddress, address) {
			count++
		}
	}
	return count, nil
}

func (s *fakeNFTStore) ListByUserID(ctx context.Context, userID string) ([]*models.NFT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.NFT
	for i := len(s.nfts) - 1; i >= 0; i-- {
		if s.nfts[i].UserID == userID {
			copied := *s.nfts[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeNonceSource mirrors the Redis nonce store: lowercase keys, single use.
type fakeNonceSource struct {
	mu     sync.Mutex
	nonces map[string]string
}

func newFakeNonceSource() *fakeNonceSource {
	return &fakeNonceSource{nonces: make(map[string]string)}
}

func (s *fakeNonceSource) Issue(ctx context.Context, address string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nonce := randomHex(16)
	s.nonces[strings.ToLower(address)] = nonce
	return nonce, nil
}

func (s *fakeNonceSource) Consume(ctx context.Context, address string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(address)
	nonce := s.nonces[key]
	delete(s.nonces, key)
	return nonce, nil
}

// fakeWalletCache is an in-memory WalletCacheStore.
type fakeWalletCache struct {
	mu      sync.Mutex
	wallets map[string]*models.Wallet
}

func newFakeWalletCache() *fakeWalletCache {
	return &fakeWalletCache{wallets: make(map[string]*models.Wallet)}
}

func (c *fakeWalletCache) Get(ctx context.Context, userID string) (*models.Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.wallets[userID]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (c *fakeWalletCache) Put(ctx context.Context, userID string, wallet *models.Wallet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *wallet
	c.wallets[userID] = &copied
	return nil
}

func (c *fakeWalletCache) Clear(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.wallets, userID)
	return nil
}

// fakeAuthProvider records metadata updates and sign-outs.
type fakeAuthProvider struct {
	mu            sync.Mutex
	metadata      map[string]auth.Metadata
	signedOut     []string
	failMetadata  bool
	failSignOut   bool
	metadataCalls int
}

func newFakeAuthProvider() *fakeAuthProvider {
	return &fakeAuthProvider{metadata: make(map[string]auth.Metadata)}
}

func (p *fakeAuthProvider) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &auth.User{ID: userID, Metadata: p.metadata[userID]}, nil
}

func (p *fakeAuthProvider) UpdateUserMetadata(ctx context.Context, userID string, md auth.Metadata) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metadataCalls++
	if p.failMetadata {
		return types.NewServiceError(types.CodeStoreError, "provider unavailable")
	}
	p.metadata[userID] = md
	return nil
}

func (p *fakeAuthProvider) SignOut(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSignOut {
		return types.NewServiceError(types.CodeStoreError, "provider unavailable")
	}
	p.signedOut = append(p.signedOut, userID)
	return nil
}

// fakeEventSink collects audit events.
type fakeEventSink struct {
	mu     sync.Mutex
	events []*models.MemberEvent
	fail   bool
}

func (s *fakeEventSink) Append(ctx context.Context, event *models.MemberEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return types.NewServiceError(types.CodeStoreError, "audit log unavailable")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *fakeEventSink) typesSeen() []types.MemberEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.MemberEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
