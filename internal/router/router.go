package router

import (
	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/config"
	"github.com/haruyama/pos-backend/internal/app/controller"
	"github.com/haruyama/pos-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	orderController    *controller.OrderController
	userController     *controller.UserController
	statsController    *controller.StatsController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	userController *controller.UserController,
	statsController *controller.StatsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		cartController:     cartController,
		checkoutController: checkoutController,
		orderController:    orderController,
		userController:     userController,
		statsController:    statsController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SessionMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "POS API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		products := v1.Group("/products")
		products.Use(r.authMiddleware.Authenticate())
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/lines", r.cartController.AddLine)
			cart.PUT("/lines/:index", r.cartController.UpdateLine)
			cart.DELETE("/lines/:index", r.cartController.RemoveLine)
			cart.DELETE("", r.cartController.ClearCart)
		}

		v1.POST("/checkout",
			r.authMiddleware.Authenticate(),
			r.checkoutController.Confirm,
		)

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", r.productController.CreateProduct)
				adminProducts.PUT("/:id", r.productController.UpdateProduct)
				adminProducts.DELETE("/:id", r.productController.DeleteProduct)
				adminProducts.POST("/:id/stock", r.productController.AdjustStock)
				adminProducts.POST("/:id/options", r.productController.AddOption)
				adminProducts.PUT("/:id/options/:optionID", r.productController.UpdateOption)
				adminProducts.DELETE("/:id/options/:optionID", r.productController.DeleteOption)
			}

			orders := admin.Group("/orders")
			{
				orders.GET("", r.orderController.ListOrders)
				orders.GET("/export", r.orderController.ExportOrders)
				orders.GET("/:id", r.orderController.GetOrder)
				orders.DELETE("/:id", r.orderController.DeleteOrder)
			}

			users := admin.Group("/users")
			{
				users.GET("", r.userController.ListUsers)
				users.GET("/:id", r.userController.GetUser)
				users.POST("", r.userController.CreateUser)
				users.PUT("/:id", r.userController.UpdateUser)
				users.DELETE("/:id", r.userController.DeleteUser)
			}

			stats := admin.Group("/stats")
			{
				stats.GET("/overview", r.statsController.Overview)
				stats.GET("/products", r.statsController.ProductSales)
				stats.GET("/orders-over-time", r.statsController.OrdersOverTime)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Session-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Session-ID, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
