package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	config "github.com/meshawi/Pharmacy-Management-System/configs"
	"github.com/meshawi/Pharmacy-Management-System/internal/auth"
	"github.com/meshawi/Pharmacy-Management-System/internal/cache"
	"github.com/meshawi/Pharmacy-Management-System/internal/cart"
	"github.com/meshawi/Pharmacy-Management-System/internal/catalog"
	"github.com/meshawi/Pharmacy-Management-System/internal/db"
	"github.com/meshawi/Pharmacy-Management-System/internal/handlers"
	"github.com/meshawi/Pharmacy-Management-System/internal/logger"
	"github.com/meshawi/Pharmacy-Management-System/internal/middleware"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
	"github.com/meshawi/Pharmacy-Management-System/internal/orders"
	"github.com/meshawi/Pharmacy-Management-System/internal/reports"
	"github.com/meshawi/Pharmacy-Management-System/internal/reviews"
)

func main() {

	cfg := config.Load()
	logg := logger.New(logger.Options{Service: "pharmacy", Env: cfg.AppEnv, Level: cfg.LogLevel})

	gdb, err := db.Init(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialise DB: %v", err)
	}

	auth.Init(cfg.OIDC, gdb)

	// The rating cache is optional; without redis averages come straight
	// from the store.
	var ratingCache cache.Cache
	if cfg.Redis.Addr != "" {
		ratingCache, err = cache.NewRedisCache(cfg.Redis.Addr, "pharmacy")
		if err != nil {
			logg.Warn("redis unavailable, rating cache disabled", "error", err)
			ratingCache = nil
		}
	}

	catalogStore := catalog.NewStore(gdb)
	h := &handlers.Handler{
		Catalog: catalogStore,
		Cart:    cart.NewService(catalogStore),
		Orders:  orders.NewEngine(gdb, cfg.OrderTimeout),
		Reviews: reviews.NewAggregator(gdb, ratingCache),
		Reports: reports.NewService(gdb),
		Users:   auth.NewUsers(gdb),
		Email:   cfg.Email,
		Log:     logg,
	}

	r := gin.Default()
	r.Use(middleware.RequestID())

	// ── session store ──
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("pharmsess", store))

	// ── public endpoints ──
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/auth/login", auth.Login)
	r.GET("/auth/callback", auth.Callback)
	r.POST("/auth/logout", auth.Logout)

	// ── protected API ──
	api := r.Group("/api")
	api.Use(auth.RequireAuth())
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/reviews", h.ListReviews)

		customer := api.Group("")
		customer.Use(auth.RequireRole(models.RoleCustomer))
		{
			customer.GET("/cart", h.GetCart)
			customer.POST("/cart/items/:id", h.AddToCart)
			customer.DELETE("/cart/items/:id", h.RemoveFromCart)
			customer.POST("/orders", h.ConfirmOrder)
			customer.GET("/orders", h.OrderHistory)
			customer.POST("/products/:id/reviews", h.SubmitReview)
		}

		admin := api.Group("/admin")
		admin.Use(auth.RequireRole(models.RoleAdmin))
		{
			admin.GET("/orders", h.ListAllOrders)
			admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
			admin.GET("/users", h.ListUsers)
			admin.PUT("/users/:id", h.UpdateUser)
			admin.DELETE("/users/:id", h.DeleteUser)
			admin.GET("/reports/sales", h.SalesReport)
		}

		api.POST("/products", auth.RequireRole(models.RoleAdmin), h.CreateProduct)
		api.PUT("/products/:id", auth.RequireRole(models.RoleAdmin), h.UpdateProduct)
		api.DELETE("/products/:id", auth.RequireRole(models.RoleAdmin), h.DeleteProduct)

		api.GET("/admin/reports/inventory",
			auth.RequireRole(models.RoleAdmin, models.RolePharmacist), h.InventoryReport)
	}

	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
