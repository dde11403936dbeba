package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/config"
	"github.com/kendall-kelly/petnic-studio-api/controllers"
	"github.com/kendall-kelly/petnic-studio-api/metrics"
	"github.com/kendall-kelly/petnic-studio-api/middleware"
	"github.com/kendall-kelly/petnic-studio-api/services"
	"github.com/kendall-kelly/petnic-studio-api/utils"
	"gorm.io/gorm"
)

// Dependencies are the long-lived collaborators the router is built from
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Metrics  *metrics.Metrics
	Sessions services.SessionStore
	Storage  services.Storage
	// Local is set when uploads are kept on disk and served by this process
	Local  *services.LocalStorage
	Events services.EventPublisher
}

// Setup builds the HTTP router with every route of the API
func Setup(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	events := deps.Events
	if events == nil {
		events = services.NoopPublisher{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	catalog := services.NewCatalogService(deps.DB)
	cart := services.NewCartService(deps.DB)
	orders := services.NewOrderService(deps.DB, events, deps.Metrics)
	admin := services.NewAdminService(deps.DB)
	uploads := services.NewUploadService(deps.Storage, deps.Metrics)
	auth := services.NewAuthService(deps.DB, deps.Sessions, services.TokenConfig{
		Secret:   cfg.SessionSecret,
		Issuer:   cfg.SessionIssuer,
		Audience: cfg.SessionAudience,
		TTL:      cfg.SessionTTL,
	})

	authenticate, err := middleware.Authenticate(middleware.SessionConfig{
		Secret:   cfg.SessionSecret,
		Issuer:   cfg.SessionIssuer,
		Audience: cfg.SessionAudience,
	}, auth)
	if err != nil {
		return nil, err
	}

	healthController := controllers.NewHealthController(deps.DB)
	authController := controllers.NewAuthController(auth, controllers.CookieConfig{
		Secure: cfg.CookieSecure,
		TTL:    cfg.SessionTTL,
	})
	productController := controllers.NewProductController(catalog)
	cartController := controllers.NewCartController(cart, orders)
	orderController := controllers.NewOrderController(orders)
	adminController := controllers.NewAdminController(admin)
	uploadController := controllers.NewUploadController(uploads, deps.Local)

	router := gin.New()
	router.MaxMultipartMemory = utils.MaxFileSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	router.Use(authenticate)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	router.GET("/uploads/:filename", uploadController.Serve)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Health)
		api.GET("/health/database", healthController.DatabaseStatus)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", middleware.RequireUser(), authController.Logout)
		authGroup.GET("/me", middleware.RequireUser(), authController.Me)

		api.GET("/products", productController.List)
		api.GET("/products/:id", productController.Get)
		api.GET("/categories", productController.Categories)
		api.POST("/products", middleware.RequireAdmin(), productController.Create)
		api.PUT("/products/:id", middleware.RequireAdmin(), productController.Update)
		api.DELETE("/products/:id", middleware.RequireAdmin(), productController.Delete)

		user := api.Group("", middleware.RequireUser())
		user.GET("/cart", cartController.Get)
		user.POST("/cart", cartController.Add)
		user.DELETE("/cart/clear", cartController.Clear)
		user.PUT("/cart/:id", cartController.Update)
		user.DELETE("/cart/:id", cartController.Remove)
		user.POST("/checkout", cartController.Checkout)
		user.GET("/orders", orderController.List)
		user.GET("/orders/:id", orderController.Get)
		user.POST("/upload", uploadController.Upload)
		user.POST("/upload/multiple", uploadController.UploadMultiple)
		user.DELETE("/delete/:filename", uploadController.Delete)

		adminGroup := api.Group("/admin", middleware.RequireAdmin())
		adminGroup.GET("/dashboard", adminController.Dashboard)
		adminGroup.GET("/users", adminController.ListUsers)
		adminGroup.GET("/users/:id", adminController.GetUser)
		adminGroup.PUT("/users/:id", adminController.UpdateUser)
		adminGroup.GET("/products", productController.AdminList)
		adminGroup.POST("/products", productController.Create)
		adminGroup.GET("/products/export", productController.Export)
		adminGroup.PUT("/products/:id", productController.Update)
		adminGroup.DELETE("/products/:id", productController.Delete)
		adminGroup.GET("/orders", orderController.AdminList)
		adminGroup.PUT("/orders/:id/status", orderController.UpdateStatus)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	switch {
	case len(origins) == 0:
		c.AllowOrigins = []string{"http://localhost:5173"}
	case len(origins) == 1 && origins[0] == "*":
		c.AllowAllOrigins = true
	default:
		c.AllowOrigins = origins
	}
	return c
}
