package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nkechi/Smartprep/config"
	"github.com/nkechi/Smartprep/database"
	_ "github.com/nkechi/Smartprep/docs" // Swagger docs - auto-generated
	adminctrl "github.com/nkechi/Smartprep/internal/controller/admin"
	userctrl "github.com/nkechi/Smartprep/internal/controller/user"
	"github.com/nkechi/Smartprep/internal/logger"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/nkechi/Smartprep/internal/repository"
	"github.com/nkechi/Smartprep/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Smartprep CBT Portal API
// @version 1.0
// @description Computer-based-testing portal: parents register children, children take timed multi-subject exams from a question bank, graded results accumulate per child.
// @host localhost:5000
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewResultRepository,
			repository.NewUserRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAssemblerService,
			service.NewGraderService,
			service.NewResultService,
			service.NewSessionManager,
			service.NewQuestionService,
			service.NewAuthService,
			service.NewChildService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewQuestionController,
			userctrl.NewAuthController,
			userctrl.NewChildController,
			userctrl.NewTestController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
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

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-dev-key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	questionCtrl *adminctrl.QuestionController,
	authCtrl *userctrl.AuthController,
	childCtrl *userctrl.ChildController,
	testCtrl *userctrl.TestController,
) {
	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/login", authCtrl.Login)
		auth.POST("/logout", authCtrl.Logout)

		parent := api.Group("/parent")
		parent.POST("/create-child", childCtrl.CreateChild)
		parent.GET("/children/:parentId", childCtrl.GetChildren)

		questions := api.Group("/questions")
		questions.GET("", testCtrl.GetQuestions)
		adminOnly := questions.Group("", adminctrl.DevKeyAuth(cfg.AdminDevKey))
		adminOnly.POST("/add", questionCtrl.AddQuestions)
		adminOnly.PUT("/update/:id", questionCtrl.UpdateQuestion)
		adminOnly.DELETE("/delete/:id", questionCtrl.DeleteQuestion)

		api.GET("/subjects", testCtrl.GetSubjects)

		test := api.Group("/test")
		test.POST("/start", testCtrl.StartTest)
		test.GET("/sessions/:session_id", testCtrl.GetSession)
		test.POST("/sessions/:session_id/answer", testCtrl.AnswerQuestion)
		test.POST("/sessions/:session_id/next", testCtrl.NextQuestion)
		test.POST("/sessions/:session_id/previous", testCtrl.PreviousQuestion)
		test.POST("/sessions/:session_id/submit", testCtrl.SubmitSession)
		test.DELETE("/sessions/:session_id", testCtrl.DiscardSession)
		test.POST("/submit", testCtrl.SubmitTest)
		test.GET("/results/:childId", testCtrl.GetResults)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Smartprep CBT API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.ChildHistory{},
		&model.TestRecord{},
		&model.SubjectResult{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
