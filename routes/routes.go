package routes

import (
	"net/http"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/controllers"
	"github.com/rouf-185/coding-practice-dashboard/middlewares"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
	"github.com/rouf-185/coding-practice-dashboard/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter wires repositories, services and controllers onto a gin engine.
func SetupRouter(db *gorm.DB, logger *zap.Logger) *gin.Engine {
	problemRepo := repositories.NewProblemRepository(db)
	userRepo := repositories.NewUserRepository(db)
	goalRepo := repositories.NewDailyGoalRepository(db)

	practiceSvc := services.NewPracticeService(problemRepo)
	goalSvc := services.NewDailyGoalService(practiceSvc, goalRepo)
	statsSvc := services.NewStatsService(problemRepo)
	problemSvc := services.NewProblemService(problemRepo, goalSvc, services.NewLeetcodeService(), logger)
	authSvc := services.NewAuthService(userRepo)

	authCtl := controllers.NewAuthController(authSvc)
	userCtl := controllers.NewUserController(userRepo, authSvc)
	problemCtl := controllers.NewProblemController(problemSvc)
	dashboardCtl := controllers.NewDashboardController(practiceSvc, statsSvc)
	statsCtl := controllers.NewStatsController(statsSvc, goalRepo)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middlewares.Recovery())
	r.Use(middlewares.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", userCtl.GetProfile)
		user.PUT("/settings", userCtl.UpdateSettings)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/dashboard", dashboardCtl.GetDashboard)

		api.POST("/problems", problemCtl.AddProblem)
		api.GET("/problems", problemCtl.ListProblems)
		api.POST("/problems/:id/done", problemCtl.MarkDone)
		api.DELETE("/problems/:id", problemCtl.DeleteProblem)
		api.GET("/problems/:id/history", problemCtl.GetProblemHistory)

		api.GET("/practice-data", statsCtl.GetPracticeData)
		api.GET("/difficulty-stats", statsCtl.GetDifficultyStats)
		api.GET("/heatmap-data", statsCtl.GetHeatmapData)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
