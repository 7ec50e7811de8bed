package app

import (
	"context"
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/controller"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/service"
	"fitacademy_backend/pkg/configwatcher"
	"fitacademy_backend/pkg/database"
	"fitacademy_backend/pkg/logger"
	"fitacademy_backend/pkg/monitoring"
	"fitacademy_backend/pkg/security"
	"fitacademy_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user             *repository.UserRepository
	module           *repository.ModuleRepository
	lesson           *repository.LessonRepository
	completion       *repository.LessonCompletionRepository
	legacy           *repository.LegacyProgressRepository
	moduleCompletion *repository.ModuleCompletionRepository
	unlock           *repository.ModuleUnlockRepository
	onboarding       *repository.OnboardingRepository
	schema           *repository.SchemaRepository
	period           *repository.PeriodRepository
	schemaProgress   *repository.SchemaProgressRepository
	dayCompletion    *repository.DayCompletionRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	user        *service.UserService
	entitlement *service.EntitlementService
	academy     *service.AcademyService
	onboarding  *service.OnboardingService
	schema      *service.SchemaService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	academy    *controller.AcademyController
	onboarding *controller.OnboardingController
	schema     *controller.SchemaController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:             repository.NewUserRepository(db),
		module:           repository.NewModuleRepository(db),
		lesson:           repository.NewLessonRepository(db),
		completion:       repository.NewLessonCompletionRepository(db),
		legacy:           repository.NewLegacyProgressRepository(db),
		moduleCompletion: repository.NewModuleCompletionRepository(db),
		unlock:           repository.NewModuleUnlockRepository(db),
		onboarding:       repository.NewOnboardingRepository(db),
		schema:           repository.NewSchemaRepository(db),
		period:           repository.NewPeriodRepository(db),
		schemaProgress:   repository.NewSchemaProgressRepository(db),
		dayCompletion:    repository.NewDayCompletionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.entitlement = service.NewEntitlementService(repos.user, rdb)

	s.academy = service.NewAcademyService(
		repos.module,
		repos.lesson,
		repos.completion,
		repos.legacy,
		repos.moduleCompletion,
		repos.unlock,
		repos.user,
		cfg,
	)

	s.onboarding = service.NewOnboardingService(repos.onboarding)

	s.schema = service.NewSchemaService(
		repos.schema,
		repos.period,
		repos.schemaProgress,
		repos.dayCompletion,
		repos.user,
		cfg,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user, s.storage),
		academy:    controller.NewAcademyController(s.academy),
		onboarding: controller.NewOnboardingController(s.onboarding, s.entitlement),
		schema:     controller.NewSchemaController(s.schema),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// entitlement lookups fall back to the database when the cache is down
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("fitacademy", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Config.SetProgression(newCfg.Progression)
		logger.Log.Info("Progression settings reloaded",
			zap.Int("completionWeeks", newCfg.Progression.CompletionWeeks),
			zap.Int("defaultFrequency", newCfg.Progression.DefaultFrequency))
	})
	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
