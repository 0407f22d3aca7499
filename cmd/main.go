package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/database"
	_ "github.com/lshigami/mockprep/docs" // Swagger docs
	"github.com/lshigami/mockprep/internal/cache"
	adminctrl "github.com/lshigami/mockprep/internal/controller/admin"
	userctrl "github.com/lshigami/mockprep/internal/controller/user"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/logger"
	"github.com/lshigami/mockprep/internal/middleware"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title MockPrep Interview Practice API
// @version 1.0
// @description Mock interview practice with MCQ, text, voice and video tests, keyword scoring and adaptive difficulty.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedisClient,
			NewGinEngine,
		),

		// Repositories and cache
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCategoryRepository,
			repository.NewCourseRepository,
			repository.NewQuestionRepository,
			repository.NewTestSessionRepository,
			cache.NewQuestionCache,
		),

		// Services
		fx.Provide(
			service.NewQuestionFinder,
			service.NewScoreConverterService,
			service.NewTranscriptionService,
			service.NewVideoAnalysisService,
			service.NewStorageService,
			service.NewSubmissionService,
			service.NewResultService,
			service.NewAuthService,
			service.NewProfileService,
			service.NewCategoryService,
			service.NewCourseService,
			service.NewQuestionService,
		),

		// Controllers
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewCatalogController,
			userctrl.NewSubmissionController,
			userctrl.NewResultController,
			userctrl.NewProfileController,
			userctrl.NewMediaController,
			adminctrl.NewCourseController,
			adminctrl.NewQuestionController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	allowAll := len(cfg.Server.AllowOrigins) == 0 || cfg.Server.AllowOrigins[0] == "*"
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", middleware.PrometheusHandler())

	return r
}

type routeParams struct {
	fx.In

	Lifecycle     fx.Lifecycle
	Router        *gin.Engine
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	Auth          *userctrl.AuthController
	Catalog       *userctrl.CatalogController
	Submissions   *userctrl.SubmissionController
	Results       *userctrl.ResultController
	Profiles      *userctrl.ProfileController
	Media         *userctrl.MediaController
	AdminCourses  *adminctrl.CourseController
	AdminQuestion *adminctrl.QuestionController
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(p routeParams) {
	router, cfg := p.Router, p.Config

	router.GET("/healthz", healthHandler(p.DB, p.Redis))

	// Minio objects are served by the bucket, not by this process.
	if strings.ToLower(cfg.Storage.Type) != "minio" {
		router.GET("/uploads/*key", middleware.Auth(cfg), p.Media.ServeMedia)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow))
	{
		auth := api.Group("/auth")
		auth.POST("/register", p.Auth.Register)
		auth.POST("/login", p.Auth.Login)
		auth.GET("/validate", middleware.Auth(cfg), p.Auth.Validate)

		api.GET("/categories", p.Catalog.ListCategories)
		api.GET("/categories/:id", p.Catalog.GetCategory)
		api.GET("/courses", p.Catalog.ListCourses)
		api.GET("/courses/:id", p.Catalog.GetCourse)
		api.GET("/questions/:courseId/:difficulty", p.Catalog.ListQuestions)

		authed := api.Group("")
		authed.Use(middleware.Auth(cfg))
		{
			submit := authed.Group("/submit")
			submit.POST("/mcq", p.Submissions.SubmitMCQ)
			submit.POST("/text", p.Submissions.SubmitText)
			submit.POST("/voice", p.Submissions.SubmitVoice)
			submit.POST("/video", p.Submissions.SubmitVideo)

			authed.GET("/results/:userId", p.Results.GetResults)
			authed.GET("/next-difficulty/:userId", p.Results.GetNextDifficulty)
			authed.GET("/sessions/:id", p.Results.GetSession)

			authed.GET("/users/:id/profile", p.Profiles.GetProfile)
			authed.PUT("/users/:id/profile", p.Profiles.UpdateProfile)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.Auth(cfg), middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/categories", p.AdminCourses.CreateCategory)
			admin.DELETE("/categories/:id", p.AdminCourses.DeleteCategory)

			admin.POST("/courses", p.AdminCourses.CreateCourse)
			admin.PUT("/courses/:id", p.AdminCourses.UpdateCourse)
			admin.DELETE("/courses/:id", p.AdminCourses.DeleteCourse)

			admin.POST("/questions", p.AdminQuestion.CreateQuestion)
			admin.GET("/questions/:id", p.AdminQuestion.GetQuestion)
			admin.PUT("/questions/:id", p.AdminQuestion.UpdateQuestion)
			admin.DELETE("/questions/:id", p.AdminQuestion.DeleteQuestion)
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("MockPrep API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			return server.Shutdown(ctx)
		},
	})
}

// healthHandler godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := dto.HealthResponse{Status: "ok", Database: "up", Cache: "disabled"}
		status := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			resp.Status, resp.Database = "degraded", "down"
			status = http.StatusServiceUnavailable
		}
		// The cache is optional, so a failing redis does not fail the check.
		if rdb != nil {
			resp.Cache = "up"
			if err := rdb.Ping(ctx).Err(); err != nil {
				resp.Cache = "down"
			}
		}
		c.JSON(status, resp)
	}
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Question{},
		&model.TestSession{},
		&model.SessionAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
