// Package routes はルーティングを行います。
package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"planedge/backend/internal/config"
	"planedge/backend/internal/database"
	"planedge/backend/internal/flash"
	"planedge/backend/internal/handlers"
	"planedge/backend/internal/repositories"
	"planedge/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
// rdb がnilの場合、フラッシュはCookieに、レート制限はプロセス内に保持します。
func SetupRouter(db *database.DB, cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(RequestID(), Metrics())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// リポジトリ
	taskRepo := repositories.NewTaskRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	taskService := services.NewTaskService(taskRepo, projectRepo, cfg.PerPage)
	projectService := services.NewProjectService(projectRepo)
	dashboardService := services.NewDashboardService(taskRepo, projectRepo)
	userService := services.NewUserService(userRepo)
	jwtService := services.NewJWTService(cfg.JWTSecret)

	var flashStore flash.Store = flash.NewCookieStore()
	rateLimit := MemoryRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)
	if rdb != nil {
		flashStore = flash.NewRedisStore(rdb, flash.UserKey)
		rateLimit = RedisRateLimit(rdb, cfg.APIRateLimit, cfg.APIRateWindow)
	}

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, jwtService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, flashStore)
	projectHandler := handlers.NewProjectHandler(projectService, flashStore)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// ルーティング
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})

	api := r.Group("/api")
	api.Use(rateLimit)
	api.POST("/register", userHandler.RegisterHandler)
	api.POST("/login", userHandler.LoginHandler)

	authorized := api.Group("/")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/protected", userHandler.ProtectedHandler)
		authorized.GET("/dashboard", dashboardHandler.StatsHandler)

		authorized.GET("/tasks", taskHandler.IndexHandler)
		authorized.GET("/tasks/:id", taskHandler.ShowHandler)
		authorized.POST("/tasks", taskHandler.CreateHandler)
		authorized.PUT("/tasks/:id", taskHandler.UpdateHandler)
		authorized.DELETE("/tasks/:id", taskHandler.DeleteHandler)

		authorized.GET("/projects", projectHandler.IndexHandler)
		authorized.GET("/projects/:id", projectHandler.ShowHandler)
		authorized.POST("/projects", projectHandler.CreateHandler)
		authorized.PUT("/projects/:id", projectHandler.UpdateHandler)
		authorized.DELETE("/projects/:id", projectHandler.DeleteHandler)
	}

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from PlanEdge Backend!"})
}
