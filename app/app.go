package app

import (
	"context"
	"fmt"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/app/controller"
	"brickvault/app/middleware"
	"brickvault/app/router"
	"brickvault/config"
	"brickvault/db"
	"brickvault/pricing"
	"brickvault/repository"
	"brickvault/service"
	"brickvault/session"
	"brickvault/templates"
)

// App is the wired application
type App struct {
	Handler  http.Handler
	Sessions *session.Manager
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	// Preference and draft store: PostgreSQL when configured, memory otherwise
	var prefs repository.PreferenceRepositoryInterface
	if dsn := cfg.DatabaseDSN(); dsn != "" {
		if err := db.InitDB(ctx, dsn); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		prefs = repository.NewPreferenceRepository(db.DB)
	} else {
		zap.S().Warn("⚠️ No database configured, preferences and drafts are kept in memory")
		prefs = repository.NewMemoryPreferenceRepository()
	}

	engine, err := pricing.NewEngine(cfg.Pricing.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pricing engine: %w", err)
	}

	views, err := service.NewRenderService(templates.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		// sessions will not survive a restart
		secret, err = gonanoid.New(48)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		zap.S().Warn("⚠️ SESSION_SECRET not set, using a random secret")
	}

	// Initialize repositories
	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout)
	authRepo := repository.NewAuthRepository(client)
	setRepo := repository.NewSetRepository(client)
	themeRepo := repository.NewThemeRepository(client)
	collectionRepo := repository.NewCollectionRepository(client)
	wishlistRepo := repository.NewWishlistRepository(client)
	userRepo := repository.NewUserRepository(client)
	priceRepo := repository.NewPriceRepository(client)
	blogRepo := repository.NewBlogRepository(client)
	trophyRepo := repository.NewTrophyRepository(client)
	logRepo := repository.NewLogRepository(client)

	// Initialize services
	delay := cfg.UI.FeedbackDelay
	uploads := service.NewUploadService(cfg.Uploads.MaxMB, cfg.Uploads.MaxDimension)
	drafts := service.NewDraftService(prefs)
	authService := service.NewAuthService(authRepo)
	browseService := service.NewBrowseService(setRepo, themeRepo, collectionRepo, wishlistRepo, delay, cfg.UI.LoadMoreSize)
	collectionService := service.NewCollectionService(collectionRepo, wishlistRepo, userRepo, prefs, delay)
	priceService := service.NewPriceService(priceRepo, setRepo, collectionRepo, wishlistRepo, engine, delay)
	blogService := service.NewBlogService(blogRepo, drafts, uploads)
	profileService := service.NewProfileService(userRepo, uploads)
	adminService := service.NewAdminService(userRepo, trophyRepo, logRepo, cfg.UI.PageSize)
	exportService := service.NewExportService(collectionRepo, views, cfg.Export.ChromePath, cfg.Export.Timeout)

	// Create controllers
	renderer := controller.NewRenderer(views, engine.Currency())
	controllers := &router.Controllers{
		Auth:       controller.NewAuthController(renderer, authService),
		Browse:     controller.NewBrowseController(renderer, browseService),
		Collection: controller.NewCollectionController(renderer, collectionService),
		Lists:      controller.NewListController(renderer),
		Prices:     controller.NewPriceController(renderer, priceService, drafts),
		Blog:       controller.NewBlogController(renderer, blogService),
		Profile:    controller.NewProfileController(renderer, profileService, cfg.Uploads.MaxMB),
		Export:     controller.NewExportController(renderer, exportService),
		Admin:      controller.NewAdminController(renderer, adminService),
		AdminBlog:  controller.NewAdminBlogController(renderer, blogService, drafts, cfg.Uploads.MaxMB),
	}

	mux := router.SetupRoutes(controllers, authService)

	sessions := session.NewManager(cfg.Session.TTL)
	handler := middleware.Chain(mux,
		middleware.RequestLogger,
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Sessions(middleware.SessionConfig{
			Manager:    sessions,
			Codec:      session.NewTokenCodec(secret, cfg.Session.TTL),
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
		}),
	)

	return &App{Handler: handler, Sessions: sessions}, nil
}
