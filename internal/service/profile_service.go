package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
)

// ProfileService reconciles auth identities with application profiles.
type ProfileService struct {
	profiles ProfileStore
	logger   *logging.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles ProfileStore, logger *logging.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// Get returns the profile for a user, or a NOT_FOUND error if none exists.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "user ID is required")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, types.NewServiceError(types.CodeNotFound, "profile not found").WithDetail("user_id", userID)
	}

	return profile, nil
}

// Ensure returns the user's profile, creating a default one when none exists.
// It is idempotent: concurrent calls for the same user all resolve to the
// same single record, and an existing profile is never overwritten.
func (s *ProfileService) Ensure(ctx context.Context, userID, email string) (*models.Profile, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "user ID is required")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	seed := models.ProfileSeed{
		Username: defaultUsername(email),
		Email:    email,
	}

	created, err := s.profiles.Create(ctx, userID, seed)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"username": created.Username,
	}).Info("Created default profile")

	return created, nil
}

// Update applies a caller-supplied patch to the profile. Wallet address and
// the NFT flag are owned by the wallet-linking workflow and cannot be
// changed here.
func (s *ProfileService) Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	if userID == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "user ID is required")
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, types.NewServiceError(types.CodeInvalidInput, "username cannot be empty")
	}

	return s.profiles.Update(ctx, userID, patch)
}

// defaultUsername derives a username for a fresh profile: the local part of
// the email, or a timestamp-based handle when no email is available.
func defaultUsername(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "user_" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
