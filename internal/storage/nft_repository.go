package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/membership-service/internal/models"
)

// NFTRepository handles NFT record persistence. Records are append-only;
// the application never deletes them.
type NFTRepository struct {
	db *PostgresDB
}

// NewNFTRepository creates a new NFT repository
func NewNFTRepository(db *PostgresDB) *NFTRepository {
	return &NFTRepository{db: db}
}

// Create inserts a new NFT record
func (r *NFTRepository) Create(ctx context.Context, nft *models.NFT) error {
	if nft.ID == "" {
		nft.ID = uuid.New().String()
	}
	nft.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO nfts (id, user_id, name, description, image_url, owner_address, created_at)
		VALUES ($1, $2, $3, $4, $5, LOWER($6), $7)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		nft.ID,
		nft.UserID,
		nft.Name,
		nft.Description,
		nft.ImageURL,
		nft.OwnerAddress,
		nft.CreatedAt,
	)
	if err != nil {
		return storeError("create nft", err)
	}

	return nil
}

// CountByOwnerAddress counts NFT records owned by a wallet address,
// matching case-insensitively.
func (r *NFTRepository) CountByOwnerAddress(ctx context.Context, address string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM nfts WHERE owner_address = LOWER($1)`

	if err := r.db.Pool().QueryRow(ctx, query, address).Scan(&count); err != nil {
		return 0, storeError("count nfts by owner", err)
	}

	return count, nil
}

// ListByUserID retrieves a user's NFT records, newest first
func (r *NFTRepository) ListByUserID(ctx context.Context, userID string) ([]*models.NFT, error) {
	query := `
		SELECT id, user_id, name, description, image_url, owner_address, created_at
		FROM nfts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, storeError("list nfts", err)
	}
	defer rows.Close()

	var nfts []*models.NFT
	for rows.Next() {
		var nft models.NFT
		err := rows.Scan(
			&nft.ID,
			&nft.UserID,
			&nft.Name,
			&nft.Description,
			&nft.ImageURL,
			&nft.OwnerAddress,
			&nft.CreatedAt,
		)
		if err != nil {
			return nil, storeError("scan nft", err)
		}
		nfts = append(nfts, &nft)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate nfts", err)
	}

	return nfts, nil
}
