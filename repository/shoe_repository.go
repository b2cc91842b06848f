package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"shoe-card/models"
)

// ShoeRepository handles database operations for shoes
type ShoeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShoeRepository creates a new ShoeRepository
func NewShoeRepository(db *sql.DB, logger *zap.Logger) *ShoeRepository {
	return &ShoeRepository{db: db, logger: logger}
}

// Ensure ShoeRepository implements ShoeRepositoryInterface
var _ ShoeRepositoryInterface = (*ShoeRepository)(nil)

const shoeColumns = `slug, name, image_src, price::float8, sale_price::float8, release_date, num_of_colors`

// List returns all shoes, newest release first
func (r *ShoeRepository) List(ctx context.Context) ([]models.Shoe, error) {
	query := `SELECT ` + shoeColumns + ` FROM shoes ORDER BY release_date DESC, slug ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("❌ Error querying shoes", zap.Error(err))
		return nil, fmt.Errorf("failed to query shoes: %w", err)
	}
	defer rows.Close()

	var shoes []models.Shoe
	for rows.Next() {
		shoe, err := scanShoe(rows)
		if err != nil {
			r.logger.Error("❌ Error scanning shoe", zap.Error(err))
			return nil, fmt.Errorf("failed to scan shoe: %w", err)
		}
		shoes = append(shoes, *shoe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shoes: %w", err)
	}

	r.logger.Debug("✓ Fetched shoes", zap.Int("count", len(shoes)))
	return shoes, nil
}

// GetBySlug returns a single shoe, or models.ErrShoeNotFound
func (r *ShoeRepository) GetBySlug(ctx context.Context, slug string) (*models.Shoe, error) {
	query := `SELECT ` + shoeColumns + ` FROM shoes WHERE slug = $1`

	shoe, err := scanShoe(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", models.ErrShoeNotFound, slug)
		}
		return nil, fmt.Errorf("failed to get shoe %s: %w", slug, err)
	}
	return shoe, nil
}

// Upsert inserts a shoe or replaces the one with the same slug
func (r *ShoeRepository) Upsert(ctx context.Context, shoe models.Shoe) error {
	query := `
		INSERT INTO shoes (slug, name, image_src, price, sale_price, release_date, num_of_colors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug)
		DO UPDATE SET
			name = EXCLUDED.name,
			image_src = EXCLUDED.image_src,
			price = EXCLUDED.price,
			sale_price = EXCLUDED.sale_price,
			release_date = EXCLUDED.release_date,
			num_of_colors = EXCLUDED.num_of_colors
	`

	var salePrice sql.NullFloat64
	if shoe.HasSalePrice() {
		salePrice = sql.NullFloat64{Float64: *shoe.SalePrice, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query,
		shoe.Slug, shoe.Name, shoe.ImageSrc, shoe.Price, salePrice, shoe.ReleaseDate, shoe.NumOfColors,
	); err != nil {
		return fmt.Errorf("failed to upsert shoe %s: %w", shoe.Slug, err)
	}

	r.logger.Debug("💾 Upserted shoe", zap.String("slug", shoe.Slug))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShoe(row rowScanner) (*models.Shoe, error) {
	var shoe models.Shoe
	var salePrice sql.NullFloat64
	if err := row.Scan(
		&shoe.Slug,
		&shoe.Name,
		&shoe.ImageSrc,
		&shoe.Price,
		&salePrice,
		&shoe.ReleaseDate,
		&shoe.NumOfColors,
	); err != nil {
		return nil, err
	}
	if salePrice.Valid {
		shoe.SalePrice = models.Amount(salePrice.Float64)
	}
	return &shoe, nil
}
