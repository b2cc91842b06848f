package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"shoe-card/app/controller"
	"shoe-card/app/router"
	"shoe-card/config"
	"shoe-card/db"
	"shoe-card/repository"
	"shoe-card/service"
)

// App is the initialized application
type App struct {
	Handler http.Handler
	db      *sql.DB
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Initialize database connection
	conn, err := db.InitDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	// Drive is optional: without credentials drive:// images are unavailable
	var drive service.DriveServiceInterface
	if cfg.CredentialsPath != "" {
		driveService, err := service.NewDriveService(ctx, cfg.CredentialsPath)
		if err != nil {
			conn.Close()
			return nil, err
		}
		drive = driveService
	} else {
		logger.Warn("⚠️ GOOGLE_APPLICATION_CREDENTIALS not set, drive:// images disabled")
	}

	// Initialize services
	cards, err := service.NewCardService(logger, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	images := service.NewImageService(service.NewImageFetcher(nil, cfg.BaseURL, drive, logger, cfg.ImageHosts...), cfg.ImageCacheDir, logger)
	if err := images.EnsureCacheDir(); err != nil {
		conn.Close()
		return nil, err
	}
	snapshots := service.NewSnapshotService(cfg.BaseURL, cfg.ChromePath, logger)

	// Initialize repository
	shoeRepo := repository.NewShoeRepository(conn, logger)

	// Create controllers
	controllers := &router.Controllers{
		ShoeCard: controller.NewShoeCardController(shoeRepo, cards, snapshots, logger),
		Image:    controller.NewImageController(images, logger),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{Handler: mux, db: conn}, nil
}

// Close releases the database connection
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
