package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/internal/controller"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/internal/service"
	"quit_smoking_backend/pkg/configwatcher"
	"quit_smoking_backend/pkg/database"
	"quit_smoking_backend/pkg/logger"
	"quit_smoking_backend/pkg/monitoring"
	"quit_smoking_backend/pkg/security"
	"quit_smoking_backend/pkg/tracing"
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
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	profile       *repository.SmokingProfileRepository
	plan          *repository.QuitPlanRepository
	progress      *repository.ProgressRepository
	achievement   *repository.AchievementRepository
	encouragement *repository.EncouragementRepository
}

type services struct {
	auth          *service.AuthService
	storage       *service.StorageService
	user          *service.UserService
	plan          *service.PlanService
	progress      *service.ProgressService
	stats         *service.StatsService
	achievement   *service.AchievementService
	encouragement *service.EncouragementService
	dashboard     *service.DashboardService
}

type controllers struct {
	auth          *controller.AuthController
	user          *controller.UserController
	plan          *controller.PlanController
	progress      *controller.ProgressController
	stats         *controller.StatsController
	achievement   *controller.AchievementController
	encouragement *controller.EncouragementController
	dashboard     *controller.DashboardController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		profile:       repository.NewSmokingProfileRepository(db),
		plan:          repository.NewQuitPlanRepository(db),
		progress:      repository.NewProgressRepository(db),
		achievement:   repository.NewAchievementRepository(db),
		encouragement: repository.NewEncouragementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.profile, s.storage)
	s.stats = service.NewStatsService(repos.plan, repos.progress, repos.profile, rdb, cfg)
	s.achievement = service.NewAchievementService(repos.achievement, repos.user, s.stats)
	s.plan = service.NewPlanService(repos.plan, repos.profile, s.achievement, db)
	s.progress = service.NewProgressService(repos.plan, repos.progress, s.stats, s.achievement, cfg)
	s.encouragement = service.NewEncouragementService(repos.encouragement)
	s.dashboard = service.NewDashboardService(s.plan, s.stats, s.achievement, s.encouragement)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth, s.user),
		user:          controller.NewUserController(s.user),
		plan:          controller.NewPlanController(s.plan),
		progress:      controller.NewProgressController(s.progress),
		stats:         controller.NewStatsController(s.stats),
		achievement:   controller.NewAchievementController(s.achievement),
		encouragement: controller.NewEncouragementController(s.encouragement),
		dashboard:     controller.NewDashboardController(s.dashboard),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 后台监听配置文件变化，通知注册的回调
func (a *App) watchConfig() {
	configPath := filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return
	}
	go configwatcher.WatchConfig(configPath, func(cfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不迁移，-migrate 参数强制执行
	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quit-smoking-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
