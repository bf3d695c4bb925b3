package models

import "time"

// NFT represents an application-side record asserting that a named digital
// collectible is owned by a given wallet address. Records are never deleted.
type NFT struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	OwnerAddress string    `json:"ownerAddress" db:"owner_address"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Membership NFT attributes used by the mint flow.
const (
	MembershipNFTName        = "Membership NFT"
	MembershipNFTDescription = "Member access token"
	MembershipNFTImageURL    = "/images/nft-membership.png"
)
