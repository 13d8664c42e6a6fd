package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"shop-api/internal/auth"
	"shop-api/internal/cache"
	"shop-api/internal/config"
	"shop-api/internal/handlers"
	"shop-api/internal/middleware"
	"shop-api/internal/repository"
)

// RegisterRoutes arma repositorios, handlers y rutas sobre el router.
func RegisterRoutes(router *gin.Engine, client *mongo.Client, db *mongo.Database, cfg *config.Config) error {
	users := repository.NewUserRepository(db.Collection("users"))
	products := repository.NewProductRepository(db.Collection("products"))
	categories := repository.NewCategoryRepository(db.Collection("categories"))
	carts := repository.NewCartRepository(db.Collection("carts"), db.Collection("products"))
	orders := repository.NewOrderRepository(db.Collection("orders"), db.Collection("carts"), db.Collection("products"))

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	catalogCache := cache.New(5 * time.Minute)

	authHandler := handlers.NewAuthHandler(users, tokens)
	productHandler := handlers.NewProductHandler(products, catalogCache)
	categoryHandler := handlers.NewCategoryHandler(categories, catalogCache)
	cartHandler := handlers.NewCartHandler(carts)
	orderHandler := handlers.NewOrderHandler(orders)
	healthHandler := handlers.NewHealthHandler(client)

	uploadHandler, err := handlers.NewUploadHandler(cfg.UploadDir)
	if err != nil {
		return err
	}

	requireAuth := middleware.RequireAuth(tokens, users)
	requireAdmin := middleware.RequireAdmin()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Product Catalog API",
			"health":  "/api/health",
		})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		productGroup := api.Group("/products")
		{
			productGroup.GET("", productHandler.ListProducts)
			productGroup.GET("/:id", productHandler.GetProduct)
			productGroup.GET("/slug/:slug", productHandler.GetProductBySlug)
			productGroup.POST("", requireAuth, requireAdmin, productHandler.CreateProduct)
			productGroup.PUT("/:id", requireAuth, requireAdmin, productHandler.UpdateProduct)
			productGroup.DELETE("/:id", requireAuth, requireAdmin, productHandler.DeleteProduct)
		}

		categoryGroup := api.Group("/categories")
		{
			categoryGroup.GET("", categoryHandler.ListCategories)
			categoryGroup.GET("/:id", categoryHandler.GetCategory)
			categoryGroup.POST("", requireAuth, requireAdmin, categoryHandler.CreateCategory)
			categoryGroup.PUT("/:id", requireAuth, requireAdmin, categoryHandler.UpdateCategory)
			categoryGroup.DELETE("/:id", requireAuth, requireAdmin, categoryHandler.DeleteCategory)
		}

		cartGroup := api.Group("/cart", requireAuth)
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.PUT("/items/:product_id", cartHandler.UpdateItemQuantity)
			cartGroup.DELETE("/items/:product_id", cartHandler.RemoveItem)
			cartGroup.DELETE("", cartHandler.ClearCart)
		}

		orderGroup := api.Group("/orders", requireAuth)
		{
			orderGroup.POST("", orderHandler.CreateOrder)
			orderGroup.GET("", orderHandler.ListMyOrders)
			orderGroup.GET("/all", requireAdmin, orderHandler.ListAllOrders)
			orderGroup.GET("/summary", requireAdmin, orderHandler.GetOrderSummary)
			orderGroup.GET("/metrics", requireAdmin, orderHandler.GetOrderMetrics)
			orderGroup.GET("/:id", orderHandler.GetOrder)
			orderGroup.PATCH("/:id/status", requireAdmin, orderHandler.UpdateOrderStatus)
		}

		uploadGroup := api.Group("/upload")
		{
			uploadGroup.POST("", requireAuth, uploadHandler.Upload)
			uploadGroup.GET("/:filename", uploadHandler.Serve)
		}

		api.GET("/health", healthHandler.Check)
	}

	return nil
}
