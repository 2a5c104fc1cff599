package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/controller"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/pkg/configwatcher"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/security"
	"coursehub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	repos    *repositories
	services *services
	tracer   interface{ Shutdown(context.Context) error }
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	lesson      *repository.LessonRepository
	enrollment  *repository.EnrollmentRepository
	submission  *repository.SubmissionRepository
	certificate *repository.CertificateRepository
	gradeCache  *repository.GradeCache
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	grading     *service.GradingService
	progress    *service.ProgressService
	grade       *service.GradeService
	submission  *service.SubmissionService
	certificate *service.CertificateService
	course      *service.CourseService
	dashboard   *service.DashboardService
}

type controllers struct {
	health     *controller.HealthController
	auth       *controller.AuthController
	course     *controller.CourseController
	submission *controller.SubmissionController
	review     *controller.ReviewController
	grade      *controller.GradeController
	dashboard  *controller.DashboardController
	admin      *controller.AdminController
	upload     *controller.UploadController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		lesson:      repository.NewLessonRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		certificate: repository.NewCertificateRepository(db),
		gradeCache:  repository.NewGradeCache(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.grading = service.NewGradingService(cfg.Grading)
	s.progress = service.NewProgressService(repos.lesson, repos.enrollment, repos.submission)
	s.grade = service.NewGradeService(repos.submission, repos.lesson, repos.enrollment, repos.gradeCache, s.grading)
	s.submission = service.NewSubmissionService(
		repos.submission,
		repos.lesson,
		repos.enrollment,
		s.progress,
		s.grade,
		s.grading,
		repos.gradeCache,
	)
	s.certificate = service.NewCertificateService(repos.certificate, repos.enrollment, s.grade)
	s.course = service.NewCourseService(repos.course, repos.lesson, repos.enrollment, s.progress)
	s.dashboard = service.NewDashboardService(repos.submission, repos.enrollment, s.grade)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		health:     controller.NewHealthController(db),
		auth:       controller.NewAuthController(s.auth),
		course:     controller.NewCourseController(s.course, s.progress),
		submission: controller.NewSubmissionController(s.submission),
		review:     controller.NewReviewController(s.submission, a.repos.submission),
		grade:      controller.NewGradeController(s.grade, s.certificate),
		dashboard:  controller.NewDashboardController(s.dashboard),
		admin:      controller.NewAdminController(s.course, s.storage),
		upload:     controller.NewUploadController(s.storage),
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
		maxRequests = 10000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchGradingPolicy pushes config file changes into the grading engine so
// pass thresholds and weights can be tuned without a restart.
func (a *App) watchGradingPolicy(s *services) {
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		s.grading.UpdatePolicy(cfg.Grading)
		logger.Log.Info("grading policy reloaded",
			zap.Int("quizPassPercent", cfg.Grading.QuizPassPercent),
			zap.Float64("coursePassScore", cfg.Grading.CoursePassScore))
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
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
		// The grade cache degrades to pass-through without redis.
		logger.Log.Warn("Redis unavailable, grade snapshots will not be cached", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	app.repos = repos
	svcs := app.initServices(repos, cfg)
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("course-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchGradingPolicy(svcs)

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

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
