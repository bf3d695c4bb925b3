package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/membership-service/internal/auth"
	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
	"github.com/membership-service/internal/wallet"
)

// Session is a snapshot of one member's session state. The profile record
// is authoritative; the session and its cached wallet are derived from it.
type Session struct {
	State   types.SessionState `json:"state"`
	UserID  string             `json:"userId,omitempty"`
	Email   string             `json:"email,omitempty"`
	Profile *models.Profile    `json:"profile,omitempty"`
	Wallet  *models.Wallet     `json:"wallet,omitempty"`
}

// SessionManager tracks per-user session state and is the single writer of
// the wallet cache. Auth provider events are applied by one consumer
// goroutine in arrival order, so overlapping events cannot interleave.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ensurer  *ProfileService
	profiles ProfileStore
	cache    WalletCacheStore
	provider auth.Provider
	events   EventSink
	logger   *logging.Logger

	queue chan auth.Event
	done  chan struct{}
}

// NewSessionManager creates a session manager. Call Run to start the event
// consumer.
func NewSessionManager(
	ensurer *ProfileService,
	profiles ProfileStore,
	cache WalletCacheStore,
	provider auth.Provider,
	events EventSink,
	logger *logging.Logger,
) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		ensurer:  ensurer,
		profiles: profiles,
		cache:    cache,
		provider: provider,
		events:   events,
		logger:   logger,
		queue:    make(chan auth.Event, 64),
		done:     make(chan struct{}),
	}
}

// Run consumes queued auth events until ctx is cancelled. Events are
// applied strictly in the order they were enqueued.
func (m *SessionManager) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-m.queue:
			m.apply(ctx, event)
		}
	}
}

// Enqueue adds an auth provider event to the ordered queue.
func (m *SessionManager) Enqueue(event auth.Event) {
	m.queue <- event
}

// Wait blocks until the event consumer has stopped.
func (m *SessionManager) Wait() {
	<-m.done
}

// apply performs the state transition for one auth event.
func (m *SessionManager) apply(ctx context.Context, event auth.Event) {
	userID := event.User.ID
	log := m.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"event":   string(event.Type),
	})

	switch event.Type {
	case types.AuthEventSignedIn:
		if _, err := m.Resolve(ctx, userID, event.User.Email); err != nil {
			log.WithError(err).Error("Failed to resolve session on sign-in")
			return
		}
		m.audit(ctx, &models.MemberEvent{UserID: userID, Type: types.EventSessionStarted})
		log.Info("Session started")

	case types.AuthEventSignedOut:
		m.endSession(ctx, userID)
		log.Info("Session ended")

	case types.AuthEventUserUpdated:
		m.refreshProfile(ctx, userID)

	case types.AuthEventTokenRefreshed:
		// Session identity is unchanged; nothing to reconcile.

	default:
		log.Warn("Ignoring unknown auth event type")
	}
}

// Resolve loads the session for an authenticated user: ensures the profile
// exists and restores the wallet from the cache, dropping cache entries
// that disagree with the profile record.
func (m *SessionManager) Resolve(ctx context.Context, userID, email string) (*Session, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "authentication required")
	}

	m.setState(userID, types.SessionLoading)

	profile, err := m.ensurer.Ensure(ctx, userID, email)
	if err != nil {
		m.setState(userID, types.SessionAnonymous)
		return nil, err
	}

	session := &Session{
		State:   types.SessionAuthenticated,
		UserID:  userID,
		Email:   email,
		Profile: profile,
		Wallet:  m.restoreWallet(ctx, userID, profile),
	}

	m.mu.Lock()
	m.sessions[userID] = session
	m.mu.Unlock()

	return session, nil
}

// restoreWallet rebuilds the session wallet from the profile record,
// reusing cached connection details when they match the linked address.
func (m *SessionManager) restoreWallet(ctx context.Context, userID string, profile *models.Profile) *models.Wallet {
	if profile.WalletAddress == nil || *profile.WalletAddress == "" {
		if err := m.cache.Clear(ctx, userID); err != nil {
			m.logger.WithError(err).WithField("user_id", userID).Warn("Failed to clear stale wallet cache")
		}
		return nil
	}

	cached, err := m.cache.Get(ctx, userID)
	if err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Warn("Failed to read wallet cache")
	}
	if cached != nil && strings.EqualFold(cached.Address, *profile.WalletAddress) {
		return cached
	}

	restored := &models.Wallet{
		Address:     wallet.Normalize(*profile.WalletAddress),
		WalletName:  models.DefaultWalletName,
		ConnectedAt: time.Now().UTC(),
	}
	if err := m.cache.Put(ctx, userID, restored); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Warn("Failed to refresh wallet cache")
	}
	return restored
}

// ConnectWallet records a wallet connection on the session and persists it
// to the cache. The caller must already hold an authenticated session.
func (m *SessionManager) ConnectWallet(ctx context.Context, userID string, w models.Wallet) (*models.Wallet, error) {
	m.mu.RLock()
	session, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok || session.State != types.SessionAuthenticated {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "no authenticated session")
	}

	if !wallet.ValidAddress(w.Address) {
		return nil, types.NewServiceError(types.CodeInvalidInput, "invalid wallet address").WithDetail("address", w.Address)
	}

	connected := &models.Wallet{
		Address:     wallet.Normalize(w.Address),
		WalletName:  w.WalletName,
		ChainID:     w.ChainID,
		ConnectedAt: w.ConnectedAt,
	}
	if connected.WalletName == "" {
		connected.WalletName = models.DefaultWalletName
	}
	if connected.ConnectedAt.IsZero() {
		connected.ConnectedAt = time.Now().UTC()
	}

	if err := m.cache.Put(ctx, userID, connected); err != nil {
		return nil, err
	}

	m.mu.Lock()
	session.Wallet = connected
	m.mu.Unlock()

	return connected, nil
}

// DisconnectWallet clears the session wallet and its cache entry. The
// profile's linked address is untouched; unlinking is a separate action.
func (m *SessionManager) DisconnectWallet(ctx context.Context, userID string) error {
	if err := m.cache.Clear(ctx, userID); err != nil {
		return err
	}

	m.mu.Lock()
	if session, ok := m.sessions[userID]; ok {
		session.Wallet = nil
	}
	m.mu.Unlock()

	return nil
}

// SignOut ends the session: provider sign-out is delegated best-effort,
// local session state and the wallet cache are always cleared.
func (m *SessionManager) SignOut(ctx context.Context, userID string) error {
	if userID == "" {
		return types.NewServiceError(types.CodeNotAuthenticated, "authentication required")
	}

	if err := m.provider.SignOut(ctx, userID); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Warn("Auth provider sign-out failed")
	}

	m.endSession(ctx, userID)
	return nil
}

// Snapshot returns the current session for a user. Users with no recorded
// session are reported as uninitialized.
func (m *SessionManager) Snapshot(userID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[userID]; ok {
		copied := *session
		return &copied
	}
	return &Session{State: types.SessionUninitialized}
}

func (m *SessionManager) endSession(ctx context.Context, userID string) {
	if err := m.cache.Clear(ctx, userID); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Warn("Failed to clear wallet cache on sign-out")
	}

	m.mu.Lock()
	m.sessions[userID] = &Session{State: types.SessionAnonymous, UserID: userID}
	m.mu.Unlock()

	m.audit(ctx, &models.MemberEvent{UserID: userID, Type: types.EventSessionEnded})
}

func (m *SessionManager) refreshProfile(ctx context.Context, userID string) {
	profile, err := m.profiles.Get(ctx, userID)
	if err != nil || profile == nil {
		if err != nil {
			m.logger.WithError(err).WithField("user_id", userID).Warn("Failed to refresh profile after user update")
		}
		return
	}

	m.mu.Lock()
	if session, ok := m.sessions[userID]; ok {
		session.Profile = profile
	}
	m.mu.Unlock()
}

func (m *SessionManager) setState(userID string, state types.SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{UserID: userID}
		m.sessions[userID] = session
	}
	session.State = state
}

func (m *SessionManager) audit(ctx context.Context, event *models.MemberEvent) {
	if m.events == nil {
		return
	}
	if err := m.events.Append(ctx, event); err != nil {
		m.logger.WithError(err).WithField("event_type", string(event.Type)).Warn("Failed to append audit event")
	}
}
