package router

import (
	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/config"
	"github.com/minkwan/storefront-backend/internal/app/controller"
	"github.com/minkwan/storefront-backend/internal/middleware"
	"github.com/minkwan/storefront-backend/internal/websocket"
)

type Router struct {
	authController         *controller.AuthController
	collectionController   *controller.CollectionController
	productController      *controller.ProductController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	contactController      *controller.ContactController
	subscriptionController *controller.SubscriptionController
	paymentController      *controller.PaymentController
	adminController        *controller.AdminController
	authMiddleware         *middleware.AuthMiddleware
	hub                    *websocket.Hub
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	collectionController *controller.CollectionController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	contactController *controller.ContactController,
	subscriptionController *controller.SubscriptionController,
	paymentController *controller.PaymentController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		collectionController:   collectionController,
		productController:      productController,
		cartController:         cartController,
		orderController:        orderController,
		contactController:      contactController,
		subscriptionController: subscriptionController,
		paymentController:      paymentController,
		adminController:        adminController,
		authMiddleware:         authMiddleware,
		hub:                    hub,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		collections := v1.Group("/collections")
		{
			collections.GET("", r.collectionController.ListCollections)
			collections.GET("/hierarchy", r.collectionController.GetHierarchy)
			collections.GET("/:id", r.collectionController.GetCollectionByID)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProductByID)
		}

		cart := v1.Group("/cart")
		cart.Use(middleware.GuestSession(), r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/merge", r.authMiddleware.Authenticate(), r.cartController.MergeGuestCart)
		}

		orders := v1.Group("/orders")
		{
			// Guest checkout is allowed, so order placement only needs a
			// cart identity.
			orders.POST("",
				middleware.GuestSession(),
				r.authMiddleware.OptionalAuthenticate(),
				r.orderController.CreateOrder,
			)
			orders.GET("", r.authMiddleware.Authenticate(), r.orderController.GetMyOrders)
			orders.GET("/:id", r.authMiddleware.Authenticate(), r.orderController.GetOrderByID)
		}

		payments := v1.Group("/payments")
		payments.Use(r.authMiddleware.OptionalAuthenticate())
		{
			payments.POST("/charge", r.paymentController.Charge)
		}

		contact := v1.Group("/contact")
		{
			contact.POST("", r.contactController.SubmitForm)
			contact.GET("/inquiry-types", r.contactController.InquiryTypes)
		}

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", r.subscriptionController.Subscribe)
			subscriptions.DELETE("", r.subscriptionController.Unsubscribe)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/collections", r.collectionController.CreateCollection)
			admin.PUT("/collections/:id", r.collectionController.UpdateCollection)
			admin.DELETE("/collections/:id", r.collectionController.DeleteCollection)
			admin.POST("/collections/refresh", r.collectionController.RefreshCaches)

			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)
			admin.PUT("/products/:id/specifications", r.productController.SetSpecifications)
			admin.PUT("/products/:id/details", r.productController.SetDetails)
			admin.PUT("/products/:id/downloadable-content", r.productController.SetDownloadableContent)

			admin.GET("/orders", r.orderController.ListOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateStatus)
			admin.GET("/orders/feed", websocket.ServeOrderFeed(r.hub))
			admin.GET("/statuses", r.orderController.ListStatuses)

			admin.GET("/users", r.authController.ListUsers)
			admin.PUT("/users/:id/role", r.authController.UpdateUserRole)
			admin.DELETE("/users/:id", r.authController.DeleteUser)

			admin.POST("/payments/refund", r.paymentController.Refund)

			admin.GET("/contact", r.contactController.ListSubmissions)
			admin.GET("/contact/:id", r.contactController.GetSubmissionByID)

			admin.GET("/subscriptions", r.subscriptionController.ListActive)

			admin.GET("/export/products", r.adminController.ExportProducts)
			admin.GET("/export/orders", r.adminController.ExportOrders)

			admin.POST("/uploads/images", r.adminController.PresignImageUpload)
			admin.POST("/uploads/downloads", r.adminController.PresignDownloadableUpload)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Session-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
