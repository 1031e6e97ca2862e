package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gg"

	"meetzzz-customizer/app/controller"
	"meetzzz-customizer/app/router"
	"meetzzz-customizer/db"
	"meetzzz-customizer/models"
	"meetzzz-customizer/render"
	"meetzzz-customizer/repository"
	"meetzzz-customizer/service"
	"meetzzz-customizer/session"
)

const cleanupInterval = time.Minute

var (
	fonts       *render.FontRegistry
	manager     *session.Manager
	stopCleanup chan struct{}
)

// Initialize initializes the application
func Initialize() error {
	cfg := LoadConfig()

	// Surface gg's internal warnings in the server log
	gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var err error
	fonts, err = render.NewDefaultFontRegistry()
	if err != nil {
		return fmt.Errorf("failed to load fonts: %w", err)
	}

	ctx := context.Background()
	extraFonts := syncDriveFonts(ctx, cfg, fonts)

	// Initialize database connection (optional)
	var catalogRepo repository.CatalogRepositoryInterface
	if cfg.Database.Configured() {
		if err := db.InitDB(cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		catalogRepo = repository.NewCatalogRepository(db.DB)
	} else {
		log.Printf("⚠️  No database configured, using file and built-in option tables")
	}

	catalogService := service.NewCatalogService(catalogRepo, fonts)
	tables, err := catalogService.BuildTables(ctx, cfg.TablesPath, extraFonts)
	if err != nil {
		return err
	}

	manager = session.NewManager(session.Config{
		Tables:     tables,
		Compositor: render.NewCompositor(),
		NewSurface: func(w, h int) session.Surface {
			return render.NewSurface(w, h, fonts)
		},
		Width:  cfg.CanvasSize,
		Height: cfg.CanvasSize,
		MaxAge: cfg.SessionMaxAge,
	})
	stopCleanup = make(chan struct{})
	go manager.RunCleanup(cleanupInterval, stopCleanup)

	pageService, err := service.NewPageService(cfg.Brand)
	if err != nil {
		return err
	}

	var snapshots controller.SnapshotCapturer
	if cfg.SnapshotsEnabled {
		snapshots = service.NewSnapshotService(cfg.BaseURL)
	}

	// Create controllers
	controllers := &router.Controllers{
		Options: controller.NewOptionsController(tables),
		Customizer: controller.NewCustomizerController(
			manager,
			service.NewUploadService(service.NewArtworkLoader()),
			pageService,
			snapshots,
			cfg.Brand,
		),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	log.Printf("✓ Customizer ready: %dx%d canvas, brand %s", cfg.CanvasSize, cfg.CanvasSize, cfg.Brand)
	return nil
}

// syncDriveFonts registers the fonts of the configured Drive folder.
// Sync problems are logged and never stop the server.
func syncDriveFonts(ctx context.Context, cfg Config, registry *render.FontRegistry) []models.FontOption {
	if cfg.FontsFolderID == "" {
		return nil
	}
	if cfg.CredentialsPath == "" {
		log.Printf("⚠️  DRIVE_FONTS_FOLDER_ID is set but GOOGLE_APPLICATION_CREDENTIALS is not, skipping font sync")
		return nil
	}

	driveService, err := service.NewDriveService(cfg.CredentialsPath)
	if err != nil {
		log.Printf("❌ Font sync disabled: %v", err)
		return nil
	}

	added, err := service.NewFontSyncService(driveService, registry).SyncFonts(ctx, cfg.FontsFolderID)
	if err != nil {
		log.Printf("❌ Font sync failed: %v", err)
	}
	return added
}

// Shutdown stops background work and releases sessions, fonts and the database
func Shutdown() {
	if stopCleanup != nil {
		close(stopCleanup)
		stopCleanup = nil
	}
	if manager != nil {
		manager.Close()
	}
	if fonts != nil {
		_ = fonts.Close()
	}
	if err := db.CloseDB(); err != nil {
		log.Printf("⚠️  Failed to close database: %v", err)
	}
}
