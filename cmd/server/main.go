package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"mall-backend/internal/auth"
	"mall-backend/internal/cache"
	"mall-backend/internal/config"
	"mall-backend/internal/database"
	"mall-backend/internal/db"
	"mall-backend/internal/gateway"
	"mall-backend/internal/handlers"
	"mall-backend/internal/health"
	h "mall-backend/internal/http"
	"mall-backend/internal/middleware"
	"mall-backend/internal/monitoring"
	"mall-backend/internal/notify"
	"mall-backend/internal/repositories"
	"mall-backend/internal/services"
	"mall-backend/internal/storage"
	"mall-backend/migrations"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis cache (optional - dashboard falls back to live queries)
	dashCache, err := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Printf("[Redis] Cache unavailable: %v (dashboard caching disabled)", err)
	} else {
		log.Println("[Redis] Connected successfully")
	}

	// Realtime notification hub. With Redis available, events go through
	// pub/sub so any node can reach a connected user; without it, the
	// local hub alone serves single-node deployments.
	hub := notify.NewHub()
	var sink notify.Sink = hub
	if dashCache.IsHealthy() {
		redisSink := notify.NewRedisSink(dashCache.Client())
		go redisSink.Relay(context.Background(), hub)
		sink = redisSink
	}

	// Upload storage, optionally mirrored to R2
	files := storage.NewDisk(cfg.Server.UploadDir)
	if cfg.R2.Enabled {
		r2, err := storage.NewR2(cfg.R2.Endpoint, cfg.R2.AccessKey, cfg.R2.SecretKey, cfg.R2.Bucket, cfg.R2.Region)
		if err != nil {
			log.Printf("[Storage] R2 mirror disabled: %v", err)
		} else {
			files.Mirror = r2
			log.Println("[Storage] R2 mirroring enabled")
		}
	}

	// Initialize health checker and monitoring dashboard
	healthChecker := health.NewHealthChecker(pool, dashCache)
	go monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort).Start()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	store := repositories.NewStore(pool)
	svcStore := services.NewStore(store)

	// Initialize services
	totpService := services.NewTOTPService(store.Users)
	userService := services.NewUserService(store.Users, jwtManager, totpService)
	mallService := services.NewMallService(store, jwtManager)
	roomService := services.NewRoomService(store)
	postService := services.NewPostService(store)
	bidService := services.NewBidService(svcStore, sink)
	requestService := services.NewRequestService(store, sink)
	acceptanceService := services.NewAcceptanceService(svcStore, sink)
	paymentService := services.NewPaymentService(svcStore, sink, files)
	receiptService := services.NewReceiptService(svcStore)
	dashboardService := services.NewDashboardService(svcStore, dashCache)
	rentService := services.NewRentService(store)
	notificationService := services.NewNotificationService(store.Notifications)

	// Payment gateway: Chapa when configured, Razorpay as the alternative
	var provider gateway.Provider
	switch {
	case cfg.Chapa.SecretKey != "":
		provider = gateway.NewChapa(cfg.Chapa.SecretKey, cfg.Chapa.BaseURL, cfg.Chapa.ReturnURL)
		log.Println("[Gateway] Chapa configured")
	case cfg.Razorpay.KeyID != "":
		provider = gateway.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
		log.Println("[Gateway] Razorpay configured")
	default:
		log.Println("[Gateway] No payment gateway configured, online payments disabled")
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, store.Users)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, mallService)
	mallHandler := handlers.NewMallHandler(mallService, files)
	roomHandler := handlers.NewRoomHandler(roomService, files)
	postHandler := handlers.NewPostHandler(postService, files)
	bidHandler := handlers.NewBidHandler(bidService, files)
	requestHandler := handlers.NewRequestHandler(requestService, files)
	acceptanceHandler := handlers.NewAcceptanceHandler(acceptanceService)
	tenantHandler := handlers.NewTenantHandler(userService)
	rentHandler := handlers.NewRentHandler(rentService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, receiptService, dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	subscriptionHandler := handlers.NewSubscriptionHandler(mallService, userService)
	gatewayHandler := handlers.NewGatewayHandler(provider)
	totpHandler := handlers.NewTOTPHandler(totpService, userService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler, mallHandler, roomHandler, postHandler, bidHandler,
		requestHandler, acceptanceHandler, tenantHandler, rentHandler,
		paymentHandler, notificationHandler, dashboardHandler,
		subscriptionHandler, gatewayHandler, totpHandler, healthHandler,
		hub, authMiddleware, cfg.Server.UploadDir,
	)

	// Wrap with panic recovery, metrics, request logging and CORS
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(middleware.RequestLogging(corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
