package routes

import (
	"os"
	"strings"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/config"
	"github.com/MarkCopeland8889/nutrisnap/controllers"
	"github.com/MarkCopeland8889/nutrisnap/middlewares"
	"github.com/MarkCopeland8889/nutrisnap/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	// shared services
	hub := services.NewRealtimeHub()
	services.InitAlertDeps(config.DB, hub)

	entrySvc := services.NewEntryService(config.DB)
	geminiSvc := services.NewGeminiService()
	rekSvc, err := services.NewRekognitionService()
	if err != nil {
		rekSvc = nil // photo labels are optional context, not a hard dependency
	}
	mealSvc := services.NewMealService(config.DB, entrySvc, geminiSvc, rekSvc)
	dashSvc := services.NewDashboardService(entrySvc)
	analyticsSvc := services.NewAnalyticsService(entrySvc)

	mealCtl := controllers.NewMealController(mealSvc, entrySvc)
	dashCtl := controllers.NewDashboardController(dashSvc)
	analyticsCtl := controllers.NewAnalyticsController(analyticsSvc)
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/profile", controllers.GetProfile)
		api.PUT("/profile", controllers.UpdateProfile)
		api.DELETE("/profile", controllers.DeleteAccount)

		api.POST("/meals/analyze", mealCtl.AnalyzeAndLog)
		api.GET("/meals", mealCtl.ListMeals)
		api.GET("/meals/:id", mealCtl.GetMeal)
		api.PUT("/meals/:id", mealCtl.UpdateMeal)
		api.DELETE("/meals/:id", mealCtl.DeleteMeal)

		api.GET("/dashboard/daily", dashCtl.GetDailySummary)
		api.GET("/analytics/summary", analyticsCtl.GetPeriodSummary)

		api.GET("/ws/events", realtimeCtl.EventsWS)
	}

	return r
}
