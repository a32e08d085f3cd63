package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files in development
	"github.com/labstack/echo/v4"

	"github.com/smartpark/carwash-api/internal/config"
	"github.com/smartpark/carwash-api/internal/database"
	"github.com/smartpark/carwash-api/internal/handler"
	"github.com/smartpark/carwash-api/internal/queue"
	"github.com/smartpark/carwash-api/internal/repository"
	"github.com/smartpark/carwash-api/internal/router"
	queue_publisher "github.com/smartpark/carwash-api/internal/service"
)

func main() {
	// Best effort; in production the environment is set by the deployment.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional. A nil client turns the rate limiter and the report
	// cache into pass-throughs.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)
	packages := repository.NewPackageRepo(db)
	records := repository.NewServiceRecordRepo(db)
	payments := repository.NewPaymentRepo(db)

	events := queue_publisher.New()

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users),
		Cars:     handler.NewCarHandler(cars),
		Packages: handler.NewPackageHandler(packages),
		Records:  handler.NewServiceRecordHandler(records, cars, packages, events),
		Payments: handler.NewPaymentHandler(payments, records, events),
		Reports:  handler.NewReportHandler(payments, records, cars),
	}

	// Background journal that appends recorded payments to a local log file.
	go queue.StartPaymentJournal()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, h.Auth)
	router.RegisterAPI(e, h, cfg, users, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
