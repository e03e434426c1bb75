package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/skillswap/internal/app/auth"
	appControllers "github.com/yigit/skillswap/internal/app/controllers"
	appMigrations "github.com/yigit/skillswap/internal/app/migrations"
	appRepos "github.com/yigit/skillswap/internal/app/repositories"
	"github.com/yigit/skillswap/internal/app/repositories/memory"
	appRoutes "github.com/yigit/skillswap/internal/app/routes"
	appServices "github.com/yigit/skillswap/internal/app/services"
	"github.com/yigit/skillswap/internal/config"
	"github.com/yigit/skillswap/internal/db"
	appMiddleware "github.com/yigit/skillswap/internal/middleware"
	pkgAuth "github.com/yigit/skillswap/internal/pkg/auth"
	"github.com/yigit/skillswap/internal/pkg/logger"
	"github.com/yigit/skillswap/internal/pkg/realtime"
	"github.com/yigit/skillswap/internal/pkg/websocket"
	"github.com/yigit/skillswap/internal/seed"
)

// Storage is the persistence the services run on, either PostgreSQL or
// the in-memory store.
type Storage struct {
	Profiles    appServices.ProfileStore
	Accounts    appServices.AccountStore
	Connections appServices.ConnectionStore
	Messages    appServices.MessageStore
	Close       func()
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Storage *Storage
	Bus     realtime.Bus

	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService

	AuthService         *appServices.AuthService
	ProfileService      *appServices.ProfileService
	MatchService        *appServices.MatchService
	ConnectionService   *appServices.ConnectionService
	ConversationService *appServices.ConversationService
	CampusService       *appServices.CampusService
	DashboardService    *appServices.DashboardService

	Hub            *websocket.Hub
	AuthMiddleware *appMiddleware.AuthMiddleware
	Handlers       appRoutes.Handlers

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	format := strings.ToLower(cfg.Logging.Format)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: format == "text" || format == "console",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured store. For PostgreSQL it also applies
// the migrations.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Database.Driver == "memory" {
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &Storage{
			Profiles:    store,
			Accounts:    store,
			Connections: store.Connections(),
			Messages:    store.Messages(),
			Close:       func() {},
		}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database.Pool)
	return &Storage{
		Profiles:    repos.ProfileRepository,
		Accounts:    repos.AccountRepository,
		Connections: repos.ConnectionRepository,
		Messages:    repos.MessageRepository,
		Close:       database.Close,
	}, nil
}

// SetupBus creates the realtime bus. The Redis bus forwards publications
// until ctx is cancelled.
func SetupBus(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (realtime.Bus, error) {
	if cfg.Realtime.Driver != "redis" {
		return realtime.NewLocalBus(), nil
	}

	bus, err := realtime.NewRedisBus(ctx, realtime.RedisOptions{
		Addr:     cfg.Realtime.RedisAddr,
		Password: cfg.Realtime.RedisPassword,
		DB:       cfg.Realtime.RedisDB,
		Prefix:   cfg.Realtime.ChannelPrefix,
	}, logger.Component("realtime"))
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Realtime.RedisAddr).Msg("Failed to connect to Redis")
		return nil, err
	}
	if err := bus.Start(ctx); err != nil {
		_ = bus.Close()
		return nil, err
	}
	return bus, nil
}

// SeedDemoData creates the demo profiles when enabled. Failures are logged
// and startup carries on.
func SeedDemoData(ctx context.Context, cfg *config.Config, storage *Storage, lgr zerolog.Logger) {
	if !cfg.Seed.DemoData {
		return
	}
	if err := seed.CreateDemoData(ctx, storage.Accounts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
	}
}

// BuildDependencies initializes services, controllers and middleware.
func BuildDependencies(cfg *config.Config, storage *Storage, bus realtime.Bus, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Storage: storage, Bus: bus, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(storage.Connections, logger.Component("authz"))

	deps.AuthService = appServices.NewAuthService(storage.Accounts, storage.Profiles, deps.JWTService, logger.Component("auth"))
	deps.ProfileService = appServices.NewProfileService(storage.Profiles, logger.Component("profiles"))
	deps.MatchService = appServices.NewMatchService(storage.Profiles, logger.Component("matches"))
	deps.ConnectionService = appServices.NewConnectionService(
		storage.Connections,
		storage.Profiles,
		deps.AuthzService,
		cfg.Connections.ReRequestPolicy,
		logger.Component("connections"),
	)
	deps.ConversationService = appServices.NewConversationService(
		storage.Messages,
		deps.AuthzService,
		bus,
		cfg.Chat.MaxMessageLength,
		logger.Component("conversations"),
	)
	deps.CampusService = appServices.NewCampusService(deps.ConnectionService, storage.Profiles, logger.Component("campus"))
	deps.DashboardService = appServices.NewDashboardService(storage.Profiles, deps.MatchService, deps.ConnectionService, logger.Component("dashboard"))

	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Handlers = appRoutes.Handlers{
		Auth:       appControllers.NewAuthController(deps.AuthService, lgr),
		Profile:    appControllers.NewProfileController(deps.ProfileService, lgr),
		Match:      appControllers.NewMatchController(deps.MatchService, lgr),
		Connection: appControllers.NewConnectionController(deps.ConnectionService, lgr),
		Conversation: appControllers.NewConversationController(
			deps.ConversationService,
			deps.ConnectionService,
			cfg.Chat.HistoryLimit,
			lgr,
		),
		Campus:    appControllers.NewCampusController(deps.CampusService),
		Dashboard: appControllers.NewDashboardController(deps.DashboardService),
		WebSocket: websocket.NewHandler(deps.Hub, deps.ConversationService, cfg.Server.AllowedOrigins, logger.Component("websocket")),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)
	return router
}
