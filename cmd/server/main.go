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

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/alextreichler/storefront-console/internal/backend"
	"github.com/alextreichler/storefront-console/internal/config"
	"github.com/alextreichler/storefront-console/internal/console"
	"github.com/alextreichler/storefront-console/internal/handlers"
	"github.com/alextreichler/storefront-console/internal/health"
	"github.com/alextreichler/storefront-console/internal/notify"
	"github.com/alextreichler/storefront-console/web"
)

func main() {
	// Configure slog to output DEBUG level messages
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Backend clients
	clientOpts := []backend.Option{backend.WithLogger(logger), backend.WithTimeout(cfg.BackendTimeout)}
	productClient := backend.NewProductClient(cfg.ProductServiceURL, clientOpts...)
	inventoryClient := backend.NewInventoryClient(cfg.InventoryServiceURL, clientOpts...)
	orderClient := backend.NewOrderClient(cfg.OrderServiceURL, clientOpts...)

	// 3. Notifications
	var store notify.Store
	switch cfg.NotificationStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = notify.NewRedisStore(rdb)
	default:
		mem := notify.NewMemoryStore()
		go mem.Janitor(ctx, time.Second)
		store = mem
	}
	notifications := notify.NewCenter(store, notify.WithTTL(cfg.NotificationTTL))

	// 4. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 5. Init Templates
	templates, err := handlers.LoadConsoleTemplates(web.Templates())
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 6. Controllers
	workspaces := console.NewWorkspaceStore(console.Tab(cfg.DefaultTab))
	go workspaces.Cleanup(ctx, 10*time.Minute, 24*time.Hour)

	products := console.NewProductController(productClient)
	h := &handlers.ConsoleHandler{
		Templates:     templates,
		Workspaces:    workspaces,
		Notifications: notifications,
		Tabs:          console.NewTabController(products),
		Products:      products,
		Inventory:     console.NewInventoryController(inventoryClient, cfg.BrowseSKUs, console.SelectMode(cfg.BrowseSelectMode)),
		Orders:        console.NewOrderController(orderClient, cfg.ShowPriceInput),
		IDs:           cfg.ElementIDs,
	}

	if cfg.HealthCheckEnabled {
		monitor := health.NewMonitor([]health.Service{
			{Name: "product", Prober: productClient},
			{Name: "inventory", Prober: inventoryClient},
			{Name: "order", Prober: orderClient},
		}, cfg.HealthCheckInterval)
		go monitor.Run(ctx)
		h.Health = monitor
	}

	// 7. Middleware Setup
	middlewares := handlers.CSRFMiddlewares(cfg.CSRFKey, cfg.CookieSecure,
		[]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"})

	var guard *handlers.SubmitGuard
	if cfg.SubmitGuard {
		guard = handlers.NewSubmitGuard()
	}

	router := handlers.NewRouter(h, handlers.RouterOptions{
		Static:      web.Static(),
		Sessions:    sessionStore,
		Guard:       guard,
		Middlewares: middlewares,
	})

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting",
			"port", cfg.Port,
			"product_service", cfg.ProductServiceURL,
			"inventory_service", cfg.InventoryServiceURL,
			"order_service", cfg.OrderServiceURL,
			"notification_store", cfg.NotificationStore,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-ctx.Done()

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
