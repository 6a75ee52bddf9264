package routes

import (
	"net/http"
	"pc-store/controllers"
	"pc-store/i18n"
	"pc-store/middleware"
	"pc-store/services"
	"pc-store/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services is everything the route table needs to build its controllers.
type Services struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Orders   *services.OrderService
	Admin    *services.AdminService
	Tokens   *utils.TokenManager
	Messages *i18n.Catalog
	// UploadDir is served at /uploads when set.
	UploadDir string
}

func SetupRoutes(router *gin.Engine, svc Services) {
	controllers.RegisterValidators()

	authCtrl := controllers.NewAuthController(svc.Auth)
	productCtrl := controllers.NewProductController(svc.Catalog)
	categoryCtrl := controllers.NewCategoryController(svc.Catalog)
	cartCtrl := controllers.NewCartController(svc.Cart)
	orderCtrl := controllers.NewOrderController(svc.Orders)
	adminProductCtrl := controllers.NewAdminProductController(svc.Admin)
	userCtrl := controllers.NewUserController(svc.Admin)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if svc.UploadDir != "" {
		router.Static("/uploads", svc.UploadDir)
	}

	api := router.Group("/")
	api.Use(middleware.Language(svc.Messages), middleware.AttachUser(svc.Tokens))
	{
		api.POST("/auth/register", authCtrl.Register)
		api.POST("/auth/login", authCtrl.Login)
		api.POST("/auth/google", authCtrl.Google)

		api.GET("/products", productCtrl.GetAllProducts)
		api.GET("/products/featured", productCtrl.GetFeatured)
		api.GET("/products/:id", productCtrl.GetProductByID)
		api.GET("/products/:id/reviews", productCtrl.GetReviews)

		api.GET("/categories", categoryCtrl.GetAllCategories)
		api.GET("/categories/:slug", categoryCtrl.GetCategory)
		api.GET("/brands", categoryCtrl.GetBrands)

		api.GET("/cart", cartCtrl.GetCart)
		api.POST("/cart", cartCtrl.AddItem)
		api.DELETE("/cart", cartCtrl.ClearCart)
		api.POST("/cart/items", cartCtrl.AddItem)
		api.PUT("/cart/items/:id", cartCtrl.UpdateItem)
		api.DELETE("/cart/items/:id", cartCtrl.RemoveItem)

		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:id", orderCtrl.GetOrderByID)
		api.PUT("/orders/:id/status", orderCtrl.AdvanceStatus)
	}

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/auth/me", authCtrl.Me)
		auth.POST("/auth/logout", authCtrl.Logout)
		auth.POST("/products/:id/reviews", productCtrl.CreateReview)
		auth.GET("/orders", orderCtrl.GetMyOrders)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireAdmin(svc.Auth))
	{
		admin.GET("/products", adminProductCtrl.GetAllProducts)
		admin.POST("/products", adminProductCtrl.CreateProduct)
		admin.GET("/products/:id", adminProductCtrl.GetProductByID)
		admin.PUT("/products/:id", adminProductCtrl.UpdateProduct)
		admin.DELETE("/products/:id", adminProductCtrl.DeleteProduct)
		admin.POST("/products/:id/images", adminProductCtrl.UploadImage)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/:id", orderCtrl.AdminGetOrder)
		admin.PUT("/orders/:id/status", orderCtrl.UpdateOrderStatus)

		admin.GET("/users", userCtrl.GetAllUsers)
		admin.PUT("/users/:id/role", userCtrl.UpdateUserRole)
	}
}
