package models

import "time"

// MerchItem represents an item in the merchandise catalog.
type MerchItem struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Description        string    `json:"description" db:"description"`
	Price              float64   `json:"price" db:"price"`
	ImageURL           string    `json:"imageUrl" db:"image_url"`
	NFTDiscount        bool      `json:"nftDiscount" db:"nft_discount"`
	DiscountPercentage int       `json:"discountPercentage" db:"discount_percentage"`
	InStock            bool      `json:"inStock" db:"in_stock"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// EffectivePrice returns the price after the NFT-holder discount, when the
// item offers one and the buyer holds a membership NFT.
func (m *MerchItem) EffectivePrice(hasNFT bool) float64 {
	if !hasNFT || !m.NFTDiscount || m.DiscountPercentage <= 0 {
		return m.Price
	}
	return m.Price * float64(100-m.DiscountPercentage) / 100
}

// Challenge represents a community challenge listing.
type Challenge struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Points      int        `json:"points" db:"points"`
	StartDate   time.Time  `json:"startDate" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	Status      string     `json:"status" db:"status"`
	ImageURL    string     `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}
