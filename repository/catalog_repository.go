package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"meetzzz-customizer/models"
)

// CatalogRepository handles database reads for the customizer option catalog
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// GetActiveGarmentColors retrieves the active garment palette ordered for display
func (r *CatalogRepository) GetActiveGarmentColors(ctx context.Context) ([]models.ColorOption, error) {
	return r.queryColors(ctx, "garment_colors")
}

// GetActiveTextColors retrieves the active text swatches ordered for display
func (r *CatalogRepository) GetActiveTextColors(ctx context.Context) ([]models.ColorOption, error) {
	return r.queryColors(ctx, "text_colors")
}

// queryColors reads one of the swatch tables. table is never user input.
func (r *CatalogRepository) queryColors(ctx context.Context, table string) ([]models.ColorOption, error) {
	query := fmt.Sprintf(`
		SELECT name, hex
		FROM %s
		WHERE is_active = true
		ORDER BY sort_order ASC, name ASC
	`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error querying %s: %v", table, err)
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var colors []models.ColorOption
	for rows.Next() {
		var c models.ColorOption
		if err := rows.Scan(&c.Name, &c.Hex); err != nil {
			log.Printf("❌ Error scanning %s row: %v", table, err)
			continue
		}
		c.Hex = strings.ToLower(strings.TrimSpace(c.Hex))
		colors = append(colors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	log.Printf("✓ Loaded %d rows from %s", len(colors), table)
	return colors, nil
}
