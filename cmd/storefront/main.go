package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ddkspices/storefront/internal/api/handlers"
	"github.com/ddkspices/storefront/internal/api/middleware"
	"github.com/ddkspices/storefront/internal/config"
	"github.com/ddkspices/storefront/internal/health"
	"github.com/ddkspices/storefront/internal/metrics"
	repository "github.com/ddkspices/storefront/internal/repositories"
	service "github.com/ddkspices/storefront/internal/services"
	"github.com/ddkspices/storefront/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := tracing.Init(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}

	// Storage setup
	cartRepo, closeRepo, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the cart storage", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := closeRepo(); err != nil {
			slog.Error("⚠️ Error closing storage connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Storage connection closed")
		}
	}()

	catalogService := service.NewCatalogService()
	cartService := service.NewCartService(cartRepo, cfg.Cart.AddedSignalTTL)
	contactService := service.NewContactService()
	cartHandler := handlers.NewCartHandler(cartService, catalogService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	contactHandler := handlers.NewContactHandler(contactService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating the health handler", "error", err.Error())
		os.Exit(1)
	}

	// One-time startup read of the persisted cart. Failures are absorbed
	// inside; the store comes up empty rather than not at all.
	cartService.Initialize(context.Background())

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("driver", cfg.Storage.Driver))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PATCH /api/v1/cart/items", cartHandler.ChangeQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/contact", contactHandler.Submit())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
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
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
