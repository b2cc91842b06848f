package repository

import (
	"context"

	"shoe-card/models"
)

// ShoeRepositoryInterface defines the contract for shoe catalog operations
type ShoeRepositoryInterface interface {
	List(ctx context.Context) ([]models.Shoe, error)
	GetBySlug(ctx context.Context, slug string) (*models.Shoe, error)
	Upsert(ctx context.Context, shoe models.Shoe) error
}
