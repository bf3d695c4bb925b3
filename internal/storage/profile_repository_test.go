package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/membership-service/internal/config"
	"github.com/membership-service/internal/models"
)

func testPostgres(t *testing.T) *PostgresDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := &config.PostgresConfig{
		Host:           "localhost",
		Port:           "5432",
		Database:       "membership",
		User:           "membership",
		Password:       "membership_dev_password",
		MaxConnections: 10,
	}

	db, err := NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping test - Postgres not available: %v", err)
	}
	t.Cleanup(db.Close)

	return db
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := testPostgres(t)
	repo := NewProfileRepository(db)
	ctx := testContext(t)

	userID := uuid.New().String()

	// Absent profiles read as nil without error.
	got, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Get() = %+v, want nil for absent profile", got)
	}

	created, err := repo.Create(ctx, userID, models.ProfileSeed{
		Username: "alice-" + userID[:8],
		Email:    userID[:8] + "@example.com",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.HasNFT {
		t.Error("HasNFT = true on fresh profile, want false")
	}
	if !created.Notifications.Email || created.Notifications.Marketing {
		t.Errorf("Notifications = %+v, want email on, marketing off", created.Notifications)
	}

	// A second create must return the existing row untouched.
	again, err := repo.Create(ctx, userID, models.ProfileSeed{Username: "other"})
	if err != nil {
		t.Fatalf("Create() second call error = %v", err)
	}
	if again.Username != created.Username {
		t.Errorf("Username = %s, want %s", again.Username, created.Username)
	}
}

func TestProfileRepository_WalletAddressLifecycle(t *testing.T) {
	db := testPostgres(t)
	repo := NewProfileRepository(db)
	ctx := testContext(t)

	userID := uuid.New().String()
	if _, err := repo.Create(ctx, userID, models.ProfileSeed{Username: "wallet-" + userID[:8]}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mixed := "0xAbCdEf0123456789abcdef0123456789abcDEF01"
	updated, err := repo.SetWalletAddress(ctx, userID, &mixed)
	if err != nil {
		t.Fatalf("SetWalletAddress() error = %v", err)
	}
	if updated.WalletAddress == nil || *updated.WalletAddress != "0xabcdef0123456789abcdef0123456789abcdef01" {
		t.Errorf("WalletAddress = %v, want lowercased address", updated.WalletAddress)
	}

	// Lookup is case-insensitive.
	byWallet, err := repo.GetByWalletAddress(ctx, mixed)
	if err != nil {
		t.Fatalf("GetByWalletAddress() error = %v", err)
	}
	if byWallet == nil || byWallet.ID != userID {
		t.Errorf("GetByWalletAddress() = %+v, want profile %s", byWallet, userID)
	}

	cleared, err := repo.SetWalletAddress(ctx, userID, nil)
	if err != nil {
		t.Fatalf("SetWalletAddress(nil) error = %v", err)
	}
	if cleared.WalletAddress != nil {
		t.Errorf("WalletAddress = %v after clear, want nil", cleared.WalletAddress)
	}
}
