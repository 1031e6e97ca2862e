package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"meetzzz-customizer/geometry"
	"meetzzz-customizer/models"
	"meetzzz-customizer/repository"

	"gopkg.in/yaml.v3"
)

// FontChecker reports whether a font family can be rendered
type FontChecker interface {
	Has(id string) bool
}

// CatalogService assembles the option tables sessions are built from
type CatalogService struct {
	repository repository.CatalogRepositoryInterface
	fonts      FontChecker
}

// NewCatalogService creates a new CatalogService. repo may be nil when no database is configured.
func NewCatalogService(repo repository.CatalogRepositoryInterface, fonts FontChecker) *CatalogService {
	return &CatalogService{
		repository: repo,
		fonts:      fonts,
	}
}

// LoadFile reads option tables from a YAML file on top of the built-in defaults.
// Tables missing from the file keep their default values.
func (s *CatalogService) LoadFile(path string) (*models.OptionTables, error) {
	tables := models.DefaultOptionTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read option tables %s: %w", path, err)
	}

	if err := s.mergeYAML(tables, data); err != nil {
		return nil, fmt.Errorf("failed to parse option tables %s: %w", path, err)
	}

	log.Printf("✓ Loaded option tables from %s", path)
	return tables, nil
}

func (s *CatalogService) mergeYAML(tables *models.OptionTables, data []byte) error {
	var file models.OptionTables
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	if len(file.GarmentColors) > 0 {
		tables.GarmentColors = file.GarmentColors
	}
	if len(file.TextColors) > 0 {
		tables.TextColors = file.TextColors
	}
	if len(file.Sizes) > 0 {
		tables.Sizes = file.Sizes
	}
	if file.DefaultSize != "" {
		tables.DefaultSize = file.DefaultSize
	}
	if len(file.Zones) > 0 {
		tables.Zones = file.Zones
	}
	if len(file.Fonts) > 0 {
		tables.Fonts = file.Fonts
	}
	return nil
}

// BuildTables loads the file at path, appends extraFonts, applies database overrides
// and validates the result against the geometry resolver and the font registry.
func (s *CatalogService) BuildTables(ctx context.Context, path string, extraFonts []models.FontOption) (*models.OptionTables, error) {
	tables, err := s.LoadFile(path)
	if err != nil {
		return nil, err
	}

	for _, f := range extraFonts {
		if _, err := tables.LookupFont(f.ID); err == nil {
			continue
		}
		tables.Fonts = append(tables.Fonts, f)
	}

	if s.repository != nil {
		if err := s.applyOverrides(ctx, tables); err != nil {
			return nil, err
		}
	}

	if err := s.check(tables); err != nil {
		return nil, err
	}

	log.Printf("🎨 Option tables ready: %d garment colors, %d text colors, %d zones, %d fonts",
		len(tables.GarmentColors), len(tables.TextColors), len(tables.Zones), len(tables.Fonts))
	return tables, nil
}

// applyOverrides replaces the color tables with the active database rows, when there are any
func (s *CatalogService) applyOverrides(ctx context.Context, tables *models.OptionTables) error {
	garment, err := s.repository.GetActiveGarmentColors(ctx)
	if err != nil {
		return fmt.Errorf("failed to load garment colors: %w", err)
	}
	if len(garment) > 0 {
		tables.GarmentColors = garment
	} else {
		log.Printf("⚠️  No active garment colors in database, keeping configured palette")
	}

	textColors, err := s.repository.GetActiveTextColors(ctx)
	if err != nil {
		return fmt.Errorf("failed to load text colors: %w", err)
	}
	if len(textColors) > 0 {
		tables.TextColors = textColors
	} else {
		log.Printf("⚠️  No active text colors in database, keeping configured swatches")
	}
	return nil
}

func (s *CatalogService) check(tables *models.OptionTables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("invalid option tables: %w", err)
	}

	var errs []error
	for _, z := range tables.Zones {
		if !geometry.KnownZone(z.ID) {
			errs = append(errs, fmt.Errorf("zone %q: %w", z.ID, geometry.ErrUnknownZone))
		}
	}
	if s.fonts != nil {
		for _, f := range tables.Fonts {
			if !s.fonts.Has(f.ID) {
				errs = append(errs, fmt.Errorf("font %q is not registered", f.ID))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid option tables: %w", errors.Join(errs...))
	}
	return nil
}
