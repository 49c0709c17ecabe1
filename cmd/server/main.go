package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/grocerycart/internal/cart"
	"github.com/alextreichler/grocerycart/internal/checkout"
	"github.com/alextreichler/grocerycart/internal/config"
	"github.com/alextreichler/grocerycart/internal/handlers"
	"github.com/alextreichler/grocerycart/internal/store"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Cart backend
	var cartStore cart.Store
	switch cfg.CartBackend {
	case "redis":
		cartStore = cart.NewRedisStore(cfg.RedisAddr)
		slog.Info("Using redis cart backend", "addr", cfg.RedisAddr)
	default:
		fs, err := cart.NewFileStore(cfg.CartDir)
		if err != nil {
			slog.Error("Failed to initialize cart store", "error", err)
			os.Exit(1)
		}
		cartStore = fs
	}
	carts := cart.NewManager(cartStore)
	checkoutSvc := checkout.New(db, carts)

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
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 6. Setup Handlers
	shopHandler := &handlers.ShopHandler{
		Store:        db,
		Carts:        carts,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	cartHandler := &handlers.CartHandler{
		Checkout:     checkoutSvc,
		Carts:        carts,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	orderHandler := &handlers.OrderHandler{
		Store:        db,
		Checkout:     checkoutSvc,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}

	mux := http.NewServeMux()

	// Rate limiter guards order submission
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	mux.HandleFunc("/{$}", shopHandler.Index)
	mux.HandleFunc("/help", shopHandler.Help)

	mux.HandleFunc("/cart", cartHandler.View)
	mux.HandleFunc("POST /cart/add", cartHandler.Add)
	mux.HandleFunc("POST /cart/update", cartHandler.Update)
	mux.HandleFunc("POST /cart/remove", cartHandler.Remove)

	mux.HandleFunc("/checkout", orderHandler.CheckoutForm)
	mux.HandleFunc("POST /checkout", rateLimiter.Middleware(orderHandler.PlaceOrder))
	mux.HandleFunc("/orders", orderHandler.History)

	mux.HandleFunc("/admin", adminHandler.Dashboard)
	mux.HandleFunc("POST /admin/products", adminHandler.CreateProduct)
	mux.HandleFunc("/analytics", adminHandler.Analytics)

	// 7. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
