// Package models provides data models for the membership service.
package models

import (
	"time"
)

// Profile represents the application-owned record describing a member
// beyond their raw auth identity. Exactly one profile exists per user ID;
// it is created lazily on the first read that finds none.
type Profile struct {
	ID            string                  `json:"id" db:"id"`
	Username      string                  `json:"username" db:"username"`
	Email         string                  `json:"email,omitempty" db:"email"`
	AvatarURL     string                  `json:"avatarUrl" db:"avatar_url"`
	Bio           string                  `json:"bio" db:"bio"`
	WalletAddress *string                 `json:"walletAddress" db:"wallet_address"`
	HasNFT        bool                    `json:"hasNft" db:"has_nft"`
	Notifications NotificationPreferences `json:"notifications" db:"notifications"`
	CreatedAt     time.Time               `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time               `json:"updatedAt" db:"updated_at"`
}

// NotificationPreferences holds a member's notification opt-ins.
type NotificationPreferences struct {
	Email     bool `json:"email"`
	Marketing bool `json:"marketing"`
}

// DefaultNotificationPreferences returns the preferences seeded on a new profile.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, Marketing: false}
}

// ProfileSeed holds the fields used when creating a profile lazily.
type ProfileSeed struct {
	Username      string
	Email         string
	AvatarURL     string
	WalletAddress *string
}

// ProfilePatch holds the caller-writable profile fields for updates.
// Nil fields are left unchanged. Wallet address and the NFT flag are
// owned by the wallet-linking workflow and are not patchable here.
type ProfilePatch struct {
	Username      *string                  `json:"username,omitempty"`
	AvatarURL     *string                  `json:"avatarUrl,omitempty"`
	Bio           *string                  `json:"bio,omitempty"`
	Notifications *NotificationPreferences `json:"notifications,omitempty"`
}
