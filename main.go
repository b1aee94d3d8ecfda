package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmhand/auth"
	"farmhand/cart"
	"farmhand/config"
	"farmhand/controllers"
	"farmhand/db"
	"farmhand/farms"
	"farmhand/ledger"
	"farmhand/live"
	"farmhand/middleware"
	"farmhand/mq"
	"farmhand/ratelim"
	"farmhand/rdx"
	"farmhand/repository"
	"farmhand/routes"
	"farmhand/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware tags each request with an id and logs method, path,
// remote address and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = utils.GetUUID()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s from %s – %v", reqID, r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// openStore picks the backing store and layers the Redis catalogue cache on
// top when Redis is available.
func openStore(ctx context.Context, cfg config.Config, conn *redis.Client) (db.Store, func(), error) {
	var store db.Store
	closeFn := func() {}

	switch cfg.StoreBackend {
	case "mongo":
		m, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		store = m
		closeFn = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(ctx); err != nil {
				log.Printf("[db] close mongo: %v", err)
			}
		}
	default:
		store = db.NewMemory()
	}

	if cfg.SeedFile != "" {
		if err := db.SeedFile(ctx, store, cfg.SeedFile); err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	if conn != nil {
		store = rdx.NewCachedStore(store, &rdx.RedisCache{Conn: conn}, cfg.CacheTTL, "categories", "products")
	}
	return store, closeFn, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var conn *redis.Client
	if cfg.RedisAddr != "" {
		if conn, err = rdx.Connect(ctx, cfg.RedisAddr); err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer conn.Close()
	}

	store, closeStore, err := openStore(ctx, cfg, conn)
	if err != nil {
		log.Fatalf("❌ store: %v", err)
	}
	defer closeStore()

	opts := []repository.Option{repository.WithTimeout(cfg.StoreTimeout)}
	if conn != nil {
		opts = append(opts, repository.WithEvents(mq.NewRedisPublisher(conn)))
	}
	repo := repository.New(store, opts...)

	hub := live.NewHub()
	go hub.Run()
	if conn != nil {
		go mq.Listen(ctx, conn, mq.DefaultChannel, hub.Relay)
	}

	sessions := controllers.NewSessions(repo)
	sessions.OnOpen = func(userID string, shop *controllers.Shop, fin *controllers.Finance) []func() {
		return append(live.WatchShop(hub, userID, shop), live.WatchFinance(hub, userID, fin)...)
	}
	onJoin := func(userID string) {
		live.Snapshot(hub, userID, sessions.Shop(userID), sessions.Finance(userID))
	}

	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimit, 1)
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), 24*time.Hour)

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Farms:       farms.New(sessions.Farm, repo),
		Cart:        cart.New(sessions, repo),
		Ledger:      ledger.New(sessions, repo),
		Hub:         hub,
		Auth:        middleware.Authenticate(tokens),
		RateLimiter: rateLimiter,
		OnJoin:      onJoin,
	})

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions.Sweep(cfg.SessionIdle)
				rateLimiter.Cleanup()
			}
		}
	}()

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           loggingMiddleware(securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down live hub...")
		stop()
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
