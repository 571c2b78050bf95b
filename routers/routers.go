package routers

import (
	"GoldShop/config"
	"GoldShop/handlers"
	"GoldShop/jwt"
	"GoldShop/lock"
	"GoldShop/middleware"
	"GoldShop/repository"
	"GoldShop/services"
	"GoldShop/storage"
	"context"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"time"
)

// Dependencies is everything the route table hands to handlers.
type Dependencies struct {
	Config config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger

	Users     *repository.UserRepository
	Logins    *repository.LoginTokenRepository
	Addresses *repository.AddressRepository
	Products  *repository.ProductRepository
	Loans     *repository.GoldLoanRepository
	Sellers   *repository.SellerRepository

	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Carts    *services.CartService

	Tokens  *jwt.Manager
	Uploads *storage.LocalStore
}

func NewDependencies(cfg config.Config, db *gorm.DB, rdb *redis.Client, locker lock.Locker, logger *zap.Logger) (*Dependencies, error) {
	shipping, err := services.NewShippingPolicy(cfg.Checkout.FlatShipping, cfg.Checkout.FreeShippingOver)
	if err != nil {
		return nil, err
	}
	uploads, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		return nil, err
	}

	addresses := repository.NewAddressRepository(db)
	carts := repository.NewCartRepository(db)
	orders := repository.NewOrderRepository(db)
	products := repository.NewProductRepository(db, rdb, logger)
	logins := repository.NewLoginTokenRepository(db)

	checkout := services.NewCheckoutService(
		addresses, carts, orders, products, locker, shipping,
		checkoutOptions(cfg.Checkout),
		logger,
	)

	return &Dependencies{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Logger:    logger,
		Users:     repository.NewUserRepository(db),
		Logins:    logins,
		Addresses: addresses,
		Products:  products,
		Loans:     repository.NewGoldLoanRepository(db),
		Sellers:   repository.NewSellerRepository(db),
		Checkout:  checkout,
		Orders:    services.NewOrderService(orders, logger),
		Carts:     services.NewCartService(carts, products, logger),
		Tokens:    jwt.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, logins),
		Uploads:   uploads,
	}, nil
}

func checkoutOptions(cfg config.CheckoutConfig) services.CheckoutOptions {
	return services.CheckoutOptions{
		LockTTL:           time.Duration(cfg.LockTTLSeconds) * time.Second,
		EnrichConcurrency: cfg.EnrichConcurrency,
		FinishTimeout:     time.Duration(cfg.FinishTimeoutSeconds) * time.Second,
	}
}

func SetupRouters(deps *Dependencies) (*gin.Engine, error) {
	logger := deps.Logger

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Authorization", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := router.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		return nil, err
	}

	// uploaded images
	router.Static(deps.Uploads.URLPrefix(), deps.Uploads.Dir())

	router.GET("/healthz", func(context *gin.Context) {
		healthHandler(context, deps)
	})

	loginRequired := []gin.HandlerFunc{middleware.CheckLoginMiddleware()}
	adminRequired := []gin.HandlerFunc{middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware()}

	router.Use(middleware.AuthMiddleware(deps.Tokens, logger))
	{
		router.POST("/checkout", func(context *gin.Context) {
			handlers.CheckoutHandler(context, deps.Checkout, logger)
		})

		orders := router.Group("/orders")
		{
			orders.GET("/list/:userId", func(context *gin.Context) {
				handlers.GetUserOrdersHandler(context, deps.Orders, logger)
			})
			orders.GET("/:orderId", func(context *gin.Context) {
				handlers.GetOrderHandler(context, deps.Orders, logger)
			})

			admin := orders.Group("", adminRequired...)
			admin.GET("/all", func(context *gin.Context) {
				handlers.GetAllOrdersHandler(context, deps.Orders, logger)
			})
			admin.GET("/export", func(context *gin.Context) {
				handlers.ExportOrdersHandler(context, deps.Orders, logger)
			})
			admin.POST("/update-status", func(context *gin.Context) {
				handlers.UpdateOrderStatusHandler(context, deps.Orders, logger)
			})
			admin.POST("/reconcile", func(context *gin.Context) {
				handlers.ReconcileOrdersHandler(context, deps.Orders, logger)
			})
		}

		cart := router.Group("/cart")
		{
			cart.POST("/add", func(context *gin.Context) {
				handlers.AddToCartHandler(context, deps.Carts, logger)
			})
			cart.GET("/:userId", func(context *gin.Context) {
				handlers.GetCartHandler(context, deps.Carts, logger)
			})
			cart.DELETE("/:cartLineId", func(context *gin.Context) {
				handlers.DeleteCartItemHandler(context, deps.Carts, logger)
			})
			cart.DELETE("/user/:userId", func(context *gin.Context) {
				handlers.ClearCartHandler(context, deps.Carts, logger)
			})
		}

		users := router.Group("/users")
		{
			users.POST("/signup", func(context *gin.Context) {
				handlers.SignupHandler(context, deps.Users, logger)
			})
			users.POST("/login", func(context *gin.Context) {
				handlers.LoginHandler(context, deps.Users, deps.Logins, deps.Tokens, logger)
			})
			users.POST("/addresses", func(context *gin.Context) {
				handlers.CreateAddressHandler(context, deps.Users, deps.Addresses, logger)
			})
			users.GET("/addresses", func(context *gin.Context) {
				handlers.GetAddressesHandler(context, deps.Addresses, logger)
			})
			users.POST("/logout", append(loginRequired, func(context *gin.Context) {
				handlers.LogoutHandler(context, deps.Logins, logger)
			})...)
			users.PUT("/:id", append(loginRequired, func(context *gin.Context) {
				handlers.UpdateUserHandler(context, deps.Users, logger)
			})...)

			admin := users.Group("", adminRequired...)
			admin.GET("/all", func(context *gin.Context) {
				handlers.GetAllUsersHandler(context, deps.Users, logger)
			})
			admin.DELETE("/:id", func(context *gin.Context) {
				handlers.DeleteUserHandler(context, deps.Users, logger)
			})
		}

		products := router.Group("/products")
		{
			products.GET("/all", func(context *gin.Context) {
				handlers.GetProductsHandler(context, deps.Products, logger)
			})
			products.GET("/:id", func(context *gin.Context) {
				handlers.GetProductHandler(context, deps.Products, logger)
			})

			admin := products.Group("", adminRequired...)
			admin.POST("/add", func(context *gin.Context) {
				handlers.CreateProductHandler(context, deps.Products, deps.Uploads, logger)
			})
			admin.DELETE("/:id", func(context *gin.Context) {
				handlers.DeleteProductHandler(context, deps.Products, deps.Uploads, logger)
			})
		}

		loans := router.Group("/loan")
		{
			loans.POST("/add", func(context *gin.Context) {
				handlers.CreateGoldLoanHandler(context, deps.Loans, deps.Uploads, logger)
			})

			admin := loans.Group("", adminRequired...)
			admin.GET("/all", func(context *gin.Context) {
				handlers.GetGoldLoansHandler(context, deps.Loans, logger)
			})
			admin.DELETE("/:id", func(context *gin.Context) {
				handlers.DeleteGoldLoanHandler(context, deps.Loans, deps.Uploads, logger)
			})
		}

		sellers := router.Group("/seller")
		{
			sellers.POST("/add", func(context *gin.Context) {
				handlers.CreateSellerListingHandler(context, deps.Sellers, deps.Uploads, logger)
			})
			sellers.GET("/all", func(context *gin.Context) {
				handlers.GetSellerListingsHandler(context, deps.Sellers, logger)
			})

			admin := sellers.Group("", adminRequired...)
			admin.DELETE("/:id", func(context *gin.Context) {
				handlers.DeleteSellerListingHandler(context, deps.Sellers, deps.Uploads, logger)
			})
		}
	}

	return router, nil
}

func healthHandler(c *gin.Context, deps *Dependencies) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	sqlDB, err := deps.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["database"] = err.Error()
		healthy = false
	}
	if err := deps.Redis.Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
		healthy = false
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
