package storage

import (
	"context"

	"github.com/membership-service/internal/models"
)

// CatalogRepository handles the read-only merchandise and challenge catalogs.
type CatalogRepository struct {
	db *PostgresDB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *PostgresDB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListMerch retrieves all in-stock merchandise items
func (r *CatalogRepository) ListMerch(ctx context.Context) ([]*models.MerchItem, error) {
	query := `
		SELECT id, name, description, price, image_url, nft_discount, discount_percentage, in_stock, created_at
		FROM merchandise
		WHERE in_stock
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, storeError("list merchandise", err)
	}
	defer rows.Close()

	var items []*models.MerchItem
	for rows.Next() {
		var item models.MerchItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.ImageURL,
			&item.NFTDiscount,
			&item.DiscountPercentage,
			&item.InStock,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, storeError("scan merchandise item", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate merchandise", err)
	}

	return items, nil
}

// ListActiveChallenges retrieves challenges with status 'active', newest first
func (r *CatalogRepository) ListActiveChallenges(ctx context.Context) ([]*models.Challenge, error) {
	query := `
		SELECT id, title, description, points, start_date, end_date, status, image_url, created_at
		FROM challenges
		WHERE status = 'active'
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, storeError("list challenges", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		var challenge models.Challenge
		err := rows.Scan(
			&challenge.ID,
			&challenge.Title,
			&challenge.Description,
			&challenge.Points,
			&challenge.StartDate,
			&challenge.EndDate,
			&challenge.Status,
			&challenge.ImageURL,
			&challenge.CreatedAt,
		)
		if err != nil {
			return nil, storeError("scan challenge", err)
		}
		challenges = append(challenges, &challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate challenges", err)
	}

	return challenges, nil
}
