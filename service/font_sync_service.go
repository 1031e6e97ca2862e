package service

import (
	"context"
	"fmt"
	"log"

	"meetzzz-customizer/models"
	"meetzzz-customizer/utils"
)

// FontRegistrar accepts font data under a family ID
type FontRegistrar interface {
	Has(id string) bool
	Register(id string, data []byte) error
}

// FontSyncService pulls font files from a Drive folder into the font registry
type FontSyncService struct {
	driveService DriveServiceInterface
	registry     FontRegistrar
}

// NewFontSyncService creates a new FontSyncService
func NewFontSyncService(driveService DriveServiceInterface, registry FontRegistrar) *FontSyncService {
	return &FontSyncService{
		driveService: driveService,
		registry:     registry,
	}
}

// SyncFonts registers every parsable font in folderID and returns the new font options.
// A font that fails to download or parse is skipped; listing errors abort the sync.
func (s *FontSyncService) SyncFonts(ctx context.Context, folderID string) ([]models.FontOption, error) {
	log.Printf("🔄 Starting font sync from Drive folder: %s", folderID)

	files, err := s.driveService.ListFontFiles(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fonts from drive: %w", err)
	}

	var added []models.FontOption
	skipped := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		opt, err := utils.ParseFontFileName(file.FileName)
		if err != nil {
			log.Printf("⏭️  Skipping %s: %v", file.FileName, err)
			skipped++
			continue
		}
		if s.registry.Has(opt.ID) {
			log.Printf("⏭️  Font %s already registered", opt.ID)
			skipped++
			continue
		}

		data, err := s.driveService.DownloadFile(file.DriveFileID)
		if err != nil {
			log.Printf("❌ Failed to download font %s: %v", file.FileName, err)
			skipped++
			continue
		}

		if err := s.registry.Register(opt.ID, data); err != nil {
			log.Printf("❌ Failed to register font %s: %v", file.FileName, err)
			skipped++
			continue
		}

		log.Printf("✓ Registered font %s (%s)", opt.ID, opt.Label)
		added = append(added, *opt)
	}

	log.Printf("✓ Font sync completed: %d added, %d skipped", len(added), skipped)
	return added, nil
}
