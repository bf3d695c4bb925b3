package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
)

// ProfileRepository handles profile persistence. The profiles table is the
// system of record for wallet address and NFT status; everything else that
// holds those values is a derived cache.
type ProfileRepository struct {
	db *PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, username, email, avatar_url, bio, wallet_address, has_nft, notifications, created_at, updated_at`

// Get retrieves a profile by user ID. Returns (nil, nil) when no profile
// exists so callers can distinguish absence from failure.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)

	profile, err := r.scanProfile(r.db.Pool().QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get profile", err)
	}

	return profile, nil
}

// Create inserts a profile for the given user ID. Creation is idempotent
// with respect to concurrent calls: a conflicting insert is treated as a
// no-op and the existing row is read back and returned.
func (r *ProfileRepository) Create(ctx context.Context, userID string, seed models.ProfileSeed) (*models.Profile, error) {
	now := time.Now().UTC()

	notificationsJSON, err := json.Marshal(models.DefaultNotificationPreferences())
	if err != nil {
		return nil, storeError("marshal notifications", err)
	}

	var wallet *string
	if seed.WalletAddress != nil {
		normalized := strings.ToLower(*seed.WalletAddress)
		wallet = &normalized
	}

	query := `
		INSERT INTO profiles (id, username, email, avatar_url, bio, wallet_address, has_nft, notifications, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $8)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.db.Pool().Exec(ctx, query,
		userID,
		seed.Username,
		seed.Email,
		seed.AvatarURL,
		"",
		wallet,
		notificationsJSON,
		now,
	)
	if err != nil {
		return nil, storeError("create profile", err)
	}

	// Lost the insert race or the profile already existed: fall back to a read.
	if result.RowsAffected() == 0 {
		existing, err := r.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, storeError("create profile", fmt.Errorf("profile vanished after conflicting insert: %s", userID))
		}
		return existing, nil
	}

	return r.Get(ctx, userID)
}

// Update applies a partial update to the caller-writable profile fields and
// bumps updated_at. Nil patch fields are left unchanged.
func (r *ProfileRepository) Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	sets := []string{"updated_at = $2"}
	args := []interface{}{userID, time.Now().UTC()}

	if patch.Username != nil {
		args = append(args, *patch.Username)
		sets = append(sets, fmt.Sprintf("username = $%d", len(args)))
	}
	if patch.AvatarURL != nil {
		args = append(args, *patch.AvatarURL)
		sets = append(sets, fmt.Sprintf("avatar_url = $%d", len(args)))
	}
	if patch.Bio != nil {
		args = append(args, *patch.Bio)
		sets = append(sets, fmt.Sprintf("bio = $%d", len(args)))
	}
	if patch.Notifications != nil {
		notificationsJSON, err := json.Marshal(*patch.Notifications)
		if err != nil {
			return nil, storeError("marshal notifications", err)
		}
		args = append(args, notificationsJSON)
		sets = append(sets, fmt.Sprintf("notifications = $%d", len(args)))
	}

	query := fmt.Sprintf(
		`UPDATE profiles SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "),
		profileColumns,
	)

	profile, err := r.scanProfile(r.db.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewServiceError(types.CodeNotFound, fmt.Sprintf("profile not found: %s", userID))
		}
		return nil, storeError("update profile", err)
	}

	return profile, nil
}

// SetWalletAddress updates the profile's wallet address (nil unlinks) and
// bumps updated_at. Addresses are stored lowercase.
func (r *ProfileRepository) SetWalletAddress(ctx context.Context, userID string, address *string) (*models.Profile, error) {
	var wallet *string
	if address != nil {
		normalized := strings.ToLower(*address)
		wallet = &normalized
	}

	query := fmt.Sprintf(
		`UPDATE profiles SET wallet_address = $2, updated_at = $3 WHERE id = $1 RETURNING %s`,
		profileColumns,
	)

	profile, err := r.scanProfile(r.db.Pool().QueryRow(ctx, query, userID, wallet, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewServiceError(types.CodeNotFound, fmt.Sprintf("profile not found: %s", userID))
		}
		return nil, storeError("set wallet address", err)
	}

	return profile, nil
}

// SetHasNFT writes the has_nft flag unconditionally, bumping updated_at even
// when the value is unchanged.
func (r *ProfileRepository) SetHasNFT(ctx context.Context, userID string, hasNFT bool) (*models.Profile, error) {
	query := fmt.Sprintf(
		`UPDATE profiles SET has_nft = $2, updated_at = $3 WHERE id = $1 RETURNING %s`,
		profileColumns,
	)

	profile, err := r.scanProfile(r.db.Pool().QueryRow(ctx, query, userID, hasNFT, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewServiceError(types.CodeNotFound, fmt.Sprintf("profile not found: %s", userID))
		}
		return nil, storeError("set nft status", err)
	}

	return profile, nil
}

// GetByWalletAddress retrieves the profile currently linked to a wallet
// address, matching case-insensitively. Returns (nil, nil) when none is.
func (r *ProfileRepository) GetByWalletAddress(ctx context.Context, address string) (*models.Profile, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM profiles WHERE LOWER(wallet_address) = LOWER($1)`,
		profileColumns,
	)

	profile, err := r.scanProfile(r.db.Pool().QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get profile by wallet", err)
	}

	return profile, nil
}

// scanProfile scans a single profile row
func (r *ProfileRepository) scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var notificationsJSON []byte

	err := row.Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.WalletAddress,
		&profile.HasNFT,
		&notificationsJSON,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(notificationsJSON) > 0 {
		if err := json.Unmarshal(notificationsJSON, &profile.Notifications); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notifications: %w", err)
		}
	}

	return &profile, nil
}

// storeError wraps an underlying database failure as a ServiceError so it
// never crosses a component boundary as an unchecked failure.
func storeError(operation string, err error) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeStoreError,
		Message: fmt.Sprintf("store error during %s", operation),
		Details: map[string]interface{}{
			"operation": operation,
			"cause":     err.Error(),
		},
	}
}
