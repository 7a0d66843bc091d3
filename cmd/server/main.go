package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/broadcast"
	"github.com/seatgrid/theatre-booking/internal/config"
	"github.com/seatgrid/theatre-booking/internal/database"
	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/handler"
	appmw "github.com/seatgrid/theatre-booking/internal/middleware"
	"github.com/seatgrid/theatre-booking/internal/queue"
	"github.com/seatgrid/theatre-booking/internal/repository"
	"github.com/seatgrid/theatre-booking/internal/router"
	"github.com/seatgrid/theatre-booking/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hub := broadcast.NewHub(16)
	eng := engine.New(
		repository.NewLayoutRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewBookingRepo(db),
		repository.NewMovieRepo(db),
		hub,
		service.QueueSink{},
		engine.Policy{
			CancelWindow:        cfg.CancelWindow,
			CancelFeePercent:    cfg.CancelFeePercent,
			TaxPercent:          cfg.TaxPercent,
			ConvenienceFeeCents: cfg.ConvenienceFeeCents,
			MaxAdvanceDays:      cfg.MaxAdvanceDays,
			ReserveTimeout:      cfg.ReserveTimeout,
		},
	)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer: %v", err)
		}
	}()
	go runSweeps(eng, cfg.SweepInterval)

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := appmw.NewRedisCache(cacheCfg, rdb)
	cacheBust := appmw.NewCacheBust(cacheCfg, rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewBrowseHandler(eng), cache)
	router.RegisterBooking(e, handler.NewBookingHandler(eng), cfg.JWTSecret, limiter)
	router.RegisterOperator(e, handler.NewOperatorHandler(eng), cfg.JWTSecret, cacheBust)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// runSweeps periodically completes bookings whose show has played and
// deactivates schedules for past dates.
func runSweeps(eng *engine.Engine, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if n, err := eng.CompletePastBookings(ctx); err != nil {
			log.Printf("sweep: complete past bookings: %v", err)
		} else if n > 0 {
			log.Printf("sweep: completed %d past bookings", n)
		}
		if n, err := eng.CleanupPast(ctx, ""); err != nil {
			log.Printf("sweep: schedule cleanup: %v", err)
		} else if n > 0 {
			log.Printf("sweep: deactivated %d past schedules", n)
		}
		cancel()
	}
}
