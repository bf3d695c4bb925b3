// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/membership-service/internal/auth"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/service"
)

// Service interfaces for dependency injection and testing

// ProfileServiceInterface defines profile operations used by the handlers
type ProfileServiceInterface interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Ensure(ctx context.Context, userID, email string) (*models.Profile, error)
	Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error)
}

// WalletLinkServiceInterface defines wallet linking operations
type WalletLinkServiceInterface interface {
	Challenge(ctx context.Context, address string) (nonce, message string, err error)
	Link(ctx context.Context, userID string, in service.LinkInput) (*models.Profile, error)
	Unlink(ctx context.Context, userID string) (*models.Profile, error)
}

// NFTServiceInterface defines NFT operations
type NFTServiceInterface interface {
	Mint(ctx context.Context, userID string) (*models.NFT, error)
	List(ctx context.Context, userID string) ([]*models.NFT, error)
}

// SessionServiceInterface defines session operations
type SessionServiceInterface interface {
	Resolve(ctx context.Context, userID, email string) (*service.Session, error)
	Enqueue(event auth.Event)
	Snapshot(userID string) *service.Session
	ConnectWallet(ctx context.Context, userID string, w models.Wallet) (*models.Wallet, error)
	DisconnectWallet(ctx context.Context, userID string) error
	SignOut(ctx context.Context, userID string) error
}

// CatalogServiceInterface defines catalog read operations
type CatalogServiceInterface interface {
	ListMerch(ctx context.Context, userID string) ([]*service.PricedMerchItem, error)
	ListChallenges(ctx context.Context) ([]*models.Challenge, error)
}

// EventReaderInterface reads the audit event log. May be nil when the
// audit store is unavailable; the activity endpoint then serves empty.
type EventReaderInterface interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.MemberEvent, error)
}

// Server represents the HTTP API server.
type Server struct {
	router         *mux.Router
	httpServer     *http.Server
	profileService ProfileServiceInterface
	walletService  WalletLinkServiceInterface
	nftService     NFTServiceInterface
	sessionService SessionServiceInterface
	catalogService CatalogServiceInterface
	eventReader    EventReaderInterface
	tokenVerifier  TokenVerifier
	webhookSecret  string
	config         *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int
	Burst             int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	profileService ProfileServiceInterface,
	walletService WalletLinkServiceInterface,
	nftService NFTServiceInterface,
	sessionService SessionServiceInterface,
	catalogService CatalogServiceInterface,
	eventReader EventReaderInterface,
	tokenVerifier TokenVerifier,
	webhookSecret string,
) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		profileService: profileService,
		walletService:  walletService,
		nftService:     nftService,
		sessionService: sessionService,
		catalogService: catalogService,
		eventReader:    eventReader,
		tokenVerifier:  tokenVerifier,
		webhookSecret:  webhookSecret,
		config:         config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Middleware order matters: logging wraps everything, auth must run
	// before the per-user rate limiter can key on the user.
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(AuthMiddleware(s.tokenVerifier))
	s.router.Use(RateLimitMiddleware(rateLimiter))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes registers all API routes
func (s *Server) setupRoutes() {
	apiRouter := s.router.PathPrefix("/api/v1").Subrouter()

	// Health
	apiRouter.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Session
	apiRouter.HandleFunc("/session", s.handleGetSession).Methods(http.MethodGet)
	apiRouter.HandleFunc("/session/signout", s.handleSignOut).Methods(http.MethodPost)
	apiRouter.HandleFunc("/session/wallet", s.handleConnectWallet).Methods(http.MethodPost)
	apiRouter.HandleFunc("/session/wallet", s.handleDisconnectWallet).Methods(http.MethodDelete)

	// Profile
	apiRouter.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	apiRouter.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPatch)

	// Wallet linking
	apiRouter.HandleFunc("/wallet/nonce", s.handleWalletNonce).Methods(http.MethodGet)
	apiRouter.HandleFunc("/wallet/link", s.handleLinkWallet).Methods(http.MethodPost)
	apiRouter.HandleFunc("/wallet/link", s.handleUnlinkWallet).Methods(http.MethodDelete)

	// NFTs
	apiRouter.HandleFunc("/nfts", s.handleListNFTs).Methods(http.MethodGet)
	apiRouter.HandleFunc("/nfts/mint", s.handleMintNFT).Methods(http.MethodPost)

	// Catalogs
	apiRouter.HandleFunc("/merch", s.handleListMerch).Methods(http.MethodGet)
	apiRouter.HandleFunc("/challenges", s.handleListChallenges).Methods(http.MethodGet)

	// Member activity
	apiRouter.HandleFunc("/activity", s.handleListActivity).Methods(http.MethodGet)

	// Auth provider webhook
	apiRouter.HandleFunc("/webhooks/auth", s.handleAuthWebhook).Methods(http.MethodPost)
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

// handleHealth reports service liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
