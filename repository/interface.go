package repository

import (
	"context"

	"meetzzz-customizer/models"
)

// CatalogRepositoryInterface defines the contract for reading option catalog overrides
type CatalogRepositoryInterface interface {
	GetActiveGarmentColors(ctx context.Context) ([]models.ColorOption, error)
	GetActiveTextColors(ctx context.Context) ([]models.ColorOption, error)
}
