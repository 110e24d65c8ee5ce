package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/docs"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/handlers"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/cache"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/config"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/events"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/health"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/metrics"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
	service "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/storage"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/telemetry"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/pkg/sendgrid"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title			BeatBuddy Sales Pro API
//	@version		1.0
//	@description	Order-taking backend for field sales reps: catalog lookup, session carts with the bulk order scheme, and idempotent order submission.
//	@host			localhost:8085
//	@BasePath		/api/v1

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if cfg.Migrations.RunOnStart {
		if err := storage.Migrate(repos.DB); err != nil {
			slog.Error("❌ Error running migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	publisher, err := events.New(cfg.Events)
	if err != nil {
		slog.Error("❌ Error connecting the event publisher", slog.String("driver", cfg.Events.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("⚠️ Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	var mailer sendgrid.Mailer
	if cfg.SendGrid.APIKey != "" {
		mailer = sendgrid.NewMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	// Catalog provider
	var products repository.ProductRepository
	switch cfg.Catalog.Source {
	case "postgres":
		products = repository.NewProductRepo(repos.DB)
	default:
		products = repository.NewStaticCatalog(repository.SeedProducts())
	}

	readThrough := cache.NewReadThrough(cache.NewRedisCache(redisClient, &cfg.Cache))
	sessions := repository.NewSessionRepo(redisClient, cfg.Session.CartTTL)
	lock := repository.NewSubmissionLock(redisClient, cfg.Submission.LockTTL)

	catalogService := service.NewCatalogService(products, readThrough, cfg.Cache.CatalogTTL)
	cartService := service.NewCartService(sessions, lock, catalogService)
	orderService := service.NewOrderService(service.OrderDependencies{
		Orders:      repository.NewOrderRepository(repos.DB),
		Sessions:    sessions,
		Lock:        lock,
		Idempotency: repository.NewIdempotencyRepo(redisClient, cfg.Submission.IdempotencyTTL),
		RateLimit:   repository.NewRateLimitRepo(redisClient, cfg.RateConfig),
		Catalog:     catalogService,
		Receipts:    service.NewReceiptService(mailer, cfg.SendGrid.ReceiptTo),
		Publisher:   publisher,
	}, cfg.Submission)

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)

	healthHandler, err := health.NewHealthHandler(cfg, true)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	docs.SwaggerInfo.Host = cfg.Addr

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("catalog", cfg.Catalog.Source), slog.String("events", cfg.Events.Driver))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/catalog/products", catalogHandler.SearchProducts())
	routerMux.HandleFunc("GET /api/v1/catalog/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/catalog/categories", catalogHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/catalog/payment-terms", catalogHandler.ListPaymentTerms())
	routerMux.Handle("GET /api/v1/cart", middleware.Session(cartHandler.GetCart()))
	routerMux.Handle("DELETE /api/v1/cart", middleware.Session(cartHandler.ClearCart()))
	routerMux.Handle("POST /api/v1/cart/items", middleware.Session(cartHandler.AddItem()))
	routerMux.Handle("PATCH /api/v1/cart/items/{productId}", middleware.Session(cartHandler.AdjustQuantity()))
	routerMux.Handle("DELETE /api/v1/cart/items/{productId}", middleware.Session(cartHandler.RemoveItem()))
	routerMux.Handle("POST /api/v1/cart/checkout", middleware.Session(cartHandler.Checkout()))
	routerMux.Handle("POST /api/v1/orders", middleware.Session(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	routerMux.HandleFunc("GET /api/v1/orders/export", orderHandler.ExportOrders())
	routerMux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder())
	routerMux.HandleFunc("GET /api/v1/orders/{id}/share", orderHandler.ShareReceipt())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining, metrics innermost so it sees the matched pattern
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = chimw.Recoverer(handler)
	handler = otelhttp.NewHandler(handler, cfg.OTel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
