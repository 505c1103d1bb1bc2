package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/30secgamer/drivingbackend/internal/config"
	"github.com/30secgamer/drivingbackend/internal/handler"
	"github.com/30secgamer/drivingbackend/internal/middleware"
	"github.com/30secgamer/drivingbackend/internal/response"
	"github.com/30secgamer/drivingbackend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Admin  *handler.AdminHandler
	Client *handler.ClientHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	loginLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Admin Group ───────────────────────────────────────────────────
	admin := router.Group("/api/admin")
	{
		admin.POST("/register", handlers.Admin.Register)
		admin.POST("/login", loginLimiter.Middleware(), handlers.Admin.Login)
		admin.GET("/me", middleware.RequireAdminJWT(authService), handlers.Admin.Me)
	}

	// ─── Client Group ──────────────────────────────────────────────────
	// Route paths match the deployed frontend; the record CRUD surface
	// carries no token guard, as in the original deployment.
	client := router.Group("/api/client")
	{
		client.POST("/register", handlers.Client.Register)
		client.POST("/login", loginLimiter.Middleware(), handlers.Client.Login)
		client.GET("/me", middleware.RequireClientJWT(authService), handlers.Client.Me)
		client.POST("/create", handlers.Client.Create)
		client.GET("/", handlers.Client.List)
		client.GET("/:id", handlers.Client.Get)
		client.PUT("/update/:id", handlers.Client.Update)
		client.DELETE("/:id", handlers.Client.Delete)
	}

	return router
}
