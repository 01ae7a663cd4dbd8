package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"secaware_backend/internal/config"
	"secaware_backend/internal/controller"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/service"
	"secaware_backend/pkg/configwatcher"
	"secaware_backend/pkg/database"
	"secaware_backend/pkg/logger"
	"secaware_backend/pkg/monitoring"
	"secaware_backend/pkg/security"
	"secaware_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user          *repository.UserRepository
	group         *repository.GroupRepository
	course        *repository.CourseRepository
	test          *repository.TestRepository
	question      *repository.QuestionRepository
	answer        *repository.AnswerRepository
	userTest      *repository.UserTestRepository
	phishingEmail *repository.PhishingEmailRepository
	activity      *repository.ActivityRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	group    *service.GroupService
	course   *service.CourseService
	test     *service.TestService
	grading  *service.GradingService
	activity *service.ActivityService
	phishing *service.PhishingService
	tracking *service.TrackingService
	report   *service.ReportService
	storage  *service.StorageService
	mailer   service.Mailer
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	group    *controller.GroupController
	course   *controller.CourseController
	test     *controller.TestController
	phishing *controller.PhishingController
	tracking *controller.TrackingController
	report   *controller.ReportController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		group:         repository.NewGroupRepository(db),
		course:        repository.NewCourseRepository(db),
		test:          repository.NewTestRepository(db),
		question:      repository.NewQuestionRepository(db),
		answer:        repository.NewAnswerRepository(db),
		userTest:      repository.NewUserTestRepository(db),
		phishingEmail: repository.NewPhishingEmailRepository(db),
		activity:      repository.NewActivityRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.mailer = service.NewMailer(&cfg.Mail)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.group, s.mailer)
	s.group = service.NewGroupService(repos.group, repos.user)
	s.course = service.NewCourseService(repos.course)
	s.test = service.NewTestService(repos.test, repos.question, repos.answer, repos.course)
	s.grading = service.NewGradingService(repos.test, repos.userTest)
	s.activity = service.NewActivityService(repos.activity)
	s.phishing = service.NewPhishingService(repos.phishingEmail, repos.user, repos.group, s.activity, s.mailer, s.storage, cfg)
	s.tracking = service.NewTrackingService(repos.phishingEmail, repos.user, s.activity, s.storage)
	s.report = service.NewReportService(repos.userTest, repos.activity, repos.user, repos.course, repos.test, repos.phishingEmail, rdb)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user),
		user:     controller.NewUserController(s.user),
		group:    controller.NewGroupController(s.group),
		course:   controller.NewCourseController(s.course),
		test:     controller.NewTestController(s.test, s.grading),
		phishing: controller.NewPhishingController(s.phishing),
		tracking: controller.NewTrackingController(s.tracking, a.Config),
		report:   controller.NewReportController(s.report, s.activity),
		health:   controller.NewHealthController(db, rdb),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized")

	gin.SetMode(ginMode(cfg.Server.Mode))

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
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
		// Reports fall back to uncached queries without Redis.
		logger.Log.Warn("Redis unavailable, report caching disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("secaware-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("Configuration reloaded")
		// Only settings read per request can change at runtime.
		app.Config.Phishing = newCfg.Phishing
		app.Config.Mail = newCfg.Mail
		app.Config.RateLimit = newCfg.RateLimit
	})

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
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
