// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/feastly/restaurant-backend/internal/config"
	"github.com/feastly/restaurant-backend/internal/handler"
	"github.com/feastly/restaurant-backend/internal/middleware"
)

// Handlers collects every handler the router needs.  main builds one
// of these and hands it over in a single call.
type Handlers struct {
	Auth         *handler.AuthHandler
	Tables       *handler.TableHandler
	Reservations *handler.ReservationHandler
	Ingredients  *handler.IngredientHandler
	Inventory    *handler.InventoryHandler
	Menu         *handler.MenuHandler
	Reviews      *handler.ReviewHandler
	FAQs         *handler.FAQHandler
	Addresses    *handler.AddressHandler
	Carts        *handler.CartHandler
}

// Register sets up all routes.  Public browse endpoints carry the
// Redis response cache; everything else runs behind JWT auth, with
// admin surfaces additionally role-gated.  The rate limiter wraps the
// whole API.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// --- auth ---
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	// Logout stays unauthenticated so a client holding only a refresh
	// token can end its session.
	auth.POST("/logout", h.Auth.Logout)

	// --- public browse (cached) ---
	pub := e.Group("/v1", cache)
	pub.GET("/tables", h.Tables.List)
	pub.GET("/tables/:code", h.Tables.Get)
	pub.GET("/menu", h.Menu.List)
	pub.GET("/menu/:id", h.Menu.Get)
	pub.GET("/menu/:id/reviews", h.Reviews.List)
	pub.GET("/faqs", h.FAQs.List)

	// --- authenticated (customer or admin) ---
	user := e.Group("/v1")
	user.Use(middleware.JWTAuth(cfg.JWTSecret))
	user.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

	user.GET("/me", h.Auth.Me)

	user.POST("/holds", h.Reservations.Hold)
	user.DELETE("/holds/:code", h.Reservations.Release)
	user.GET("/holds/status", h.Reservations.HoldStatus)

	user.POST("/reservations", h.Reservations.Create)
	user.GET("/reservations", h.Reservations.List)
	user.GET("/reservations/:id", h.Reservations.Get)
	user.DELETE("/reservations/:id", h.Reservations.Cancel)

	user.POST("/menu/:id/reviews", h.Reviews.Create)
	user.DELETE("/reviews/:review_id", h.Reviews.Delete)

	user.GET("/addresses", h.Addresses.List)
	user.POST("/addresses", h.Addresses.Create)
	user.PUT("/addresses/:id", h.Addresses.Update)
	user.DELETE("/addresses/:id", h.Addresses.Delete)

	user.GET("/cart", h.Carts.Get)
	user.PUT("/cart/items", h.Carts.PutItem)
	user.DELETE("/cart", h.Carts.Clear)

	// --- admin ---
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.POST("/tables", h.Tables.Create)
	admin.PUT("/tables/:code", h.Tables.Update)
	admin.GET("/holds", h.Reservations.ListHolds)

	admin.POST("/menu", h.Menu.Create)
	admin.PUT("/menu/:id", h.Menu.Update)
	admin.DELETE("/menu/:id", h.Menu.Delete)

	admin.POST("/ingredients", h.Ingredients.Create)
	admin.GET("/ingredients", h.Ingredients.List)
	admin.GET("/ingredients/:id", h.Ingredients.Get)
	admin.PUT("/ingredients/:id", h.Ingredients.Update)
	admin.DELETE("/ingredients/:id", h.Ingredients.Delete)
	admin.GET("/ingredients/:id/transactions", h.Inventory.ListTransactions)

	admin.POST("/inventory/batches", h.Inventory.RecordBatch)
	admin.GET("/inventory/batches", h.Inventory.ListBatches)
	admin.GET("/inventory/adjustments", h.Inventory.ListAdjustments)

	admin.POST("/faqs", h.FAQs.Create)
	admin.PUT("/faqs/:id", h.FAQs.Update)
	admin.DELETE("/faqs/:id", h.FAQs.Delete)
}
