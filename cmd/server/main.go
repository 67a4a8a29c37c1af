package main // Entry point package

import (
	"context" // Startup context for the push client
	"log"     // Logging library
	"time"    // Startup timeout

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/arkanhadi/lapor-siaga/internal/auth"       // Token issue/verify/revoke
	"github.com/arkanhadi/lapor-siaga/internal/broadcast"  // Live event hub
	"github.com/arkanhadi/lapor-siaga/internal/config"     // Internal config loader
	"github.com/arkanhadi/lapor-siaga/internal/database"   // MySQL connection
	"github.com/arkanhadi/lapor-siaga/internal/device"     // Admin push token registry
	"github.com/arkanhadi/lapor-siaga/internal/handler"    // HTTP handlers
	"github.com/arkanhadi/lapor-siaga/internal/middleware" // Rate limit and cache middleware
	"github.com/arkanhadi/lapor-siaga/internal/push"       // FCM sender and fan-out dispatcher
	"github.com/arkanhadi/lapor-siaga/internal/queue"      // Audit trail consumer
	"github.com/arkanhadi/lapor-siaga/internal/report"     // Report ingestion service
	"github.com/arkanhadi/lapor-siaga/internal/repository" // DB repositories
	"github.com/arkanhadi/lapor-siaga/internal/router"     // Route registration
	qp "github.com/arkanhadi/lapor-siaga/internal/service" // Audit event publisher
	"github.com/arkanhadi/lapor-siaga/internal/session"    // Push-delivery session registry
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	reports := repository.NewReportRepo(db)

	// Redis is optional.  With it, revocation survives restarts and is
	// shared across instances; without it, the in-process set still keeps
	// every invariant within a single instance.
	rdb := config.NewRedisClient()
	var revoked auth.RevocationStore
	if rdb != nil {
		revoked = auth.NewRedisRevocations(rdb)
	} else {
		log.Println("redis: unavailable, using in-process revocation store")
		revoked = auth.NewMemoryRevocations()
	}
	gate := auth.NewGate(cfg.JWTSecret, cfg.AccessTTLMin, revoked)

	// Push delivery is optional.  Without credentials the server runs with
	// the token endpoints disabled and report creation unaffected.
	sessions := session.NewRegistry()
	var (
		devices    *device.Registry
		dispatcher *push.Dispatcher
	)
	if cfg.FCMCredentials != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sender, err := push.NewFCMSender(ctx, cfg.FCMCredentials)
		cancel()
		if err != nil {
			log.Fatalf("push: init failed: %v", err)
		}
		devices = device.NewRegistry(sender, sessions)
		dispatcher = push.NewDispatcher(devices, sender, cfg.PushConcurrency)
	} else {
		log.Println("push: FCM_CREDENTIALS_FILE not set, push delivery disabled")
	}

	hub := broadcast.NewHub()

	// The audit trail degrades the same way: publish failures are logged
	// inside the publisher and never reach request handling.
	var pusher report.Dispatcher
	if dispatcher != nil {
		pusher = dispatcher // keep the interface nil when push is disabled
	}
	svc := report.NewService(reports, users, admins, hub, pusher, qp.Audit{})

	go func() {
		if err := queue.StartReportConsumer(); err != nil {
			log.Printf("audit: consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	deps := router.Deps{
		Gate:     gate,
		Auth:     handler.NewAuthHandler(gate, users, admins, devices),
		Reports:  handler.NewReportHandler(svc, reports, users, admins),
		Devices:  handler.NewDeviceHandler(devices, dispatcher),
		Sessions: handler.NewSessionHandler(sessions, cfg.SessionTTL),
		Events:   handler.NewEventsHandler(hub),
	}
	if rdb != nil {
		deps.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		deps.Cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}
	router.Register(e, deps)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
