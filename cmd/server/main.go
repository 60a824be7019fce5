package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/clock"
	"github.com/feastly/restaurant-backend/internal/config"
	"github.com/feastly/restaurant-backend/internal/database"
	"github.com/feastly/restaurant-backend/internal/geocode"
	"github.com/feastly/restaurant-backend/internal/handler"
	"github.com/feastly/restaurant-backend/internal/ledger"
	"github.com/feastly/restaurant-backend/internal/queue"
	"github.com/feastly/restaurant-backend/internal/repository"
	"github.com/feastly/restaurant-backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tables := repository.NewTableRepo(db)
	holds := repository.NewHoldRepo(db)
	reservations := repository.NewReservationRepo(db)
	ingredients := repository.NewIngredientRepo(db)
	inventory := repository.NewInventoryRepo(db)
	menu := repository.NewMenuRepo(db)
	reviews := repository.NewReviewRepo(db)
	faqs := repository.NewFAQRepo(db)
	addresses := repository.NewAddressRepo(db)
	carts := repository.NewCartRepo(db)

	// Ledgers.
	clk := clock.NewSystem()
	resLedger := ledger.NewReservationLedger(holds, clk)
	stockLedger := ledger.NewStockLedger(inventory, clk)

	var geocoder geocode.Geocoder
	if g := geocode.NewHTTPGeocoder(cfg.GeocoderURL); g != nil {
		geocoder = g
	}

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Tables:       handler.NewTableHandler(tables, resLedger),
		Reservations: handler.NewReservationHandler(resLedger, reservations, tables),
		Ingredients:  handler.NewIngredientHandler(ingredients, stockLedger),
		Inventory:    handler.NewInventoryHandler(stockLedger, inventory, ingredients),
		Menu:         handler.NewMenuHandler(menu),
		Reviews:      handler.NewReviewHandler(reviews, menu),
		FAQs:         handler.NewFAQHandler(faqs),
		Addresses:    handler.NewAddressHandler(addresses, geocoder),
		Carts:        handler.NewCartHandler(carts, menu),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	// Background consumer for booked-reservation events.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	// Periodic sweep of expired holds and refresh tokens.  Reads
	// already ignore expired rows; this just keeps the tables small.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			now := time.Now().UTC()
			if n, err := holds.PurgeExpired(ctx, now); err != nil {
				log.Printf("purge expired holds: %v", err)
			} else if n > 0 {
				log.Printf("purged %d expired holds", n)
			}
			if _, err := tokens.DeleteExpired(ctx, now); err != nil {
				log.Printf("purge expired tokens: %v", err)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
