package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anant-harryfan/shreycommerse/config"
	"github.com/anant-harryfan/shreycommerse/controllers"
	"github.com/anant-harryfan/shreycommerse/middleware"
	"github.com/anant-harryfan/shreycommerse/repository"
	"github.com/anant-harryfan/shreycommerse/services"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	redisClient *redis.Client,
	cfg config.Config,
	logger *zap.Logger,
) {
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	cartRepo := repository.NewGormCartRepository(db)

	productCache := services.NewProductCache(redisClient, cfg.ProductCacheTTL)
	identityService := services.NewIdentityService(userRepo, logger)
	catalogService := services.NewCatalogService(productRepo, productCache, logger)
	cartService := services.NewCartService(cartRepo, identityService, catalogService, logger)

	cartController := controllers.NewCartController(cartService)
	productController := controllers.NewProductController(catalogService)

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestTimeout(cfg.StoreTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog routes
	r.GET("/products", productController.ListProducts)
	r.GET("/products/:id", productController.GetProduct)
	r.GET("/categories", productController.ListCategories)

	// Protected cart routes (require authentication)
	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		cart.GET("", cartController.GetCart)
		cart.POST("", cartController.AddItem)
		cart.PATCH("/:id", cartController.UpdateItem)
		cart.DELETE("/:id", cartController.RemoveItem)
	}
}
