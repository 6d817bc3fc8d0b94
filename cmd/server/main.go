package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tejash/bloghub/internal/auth"
	"github.com/tejash/bloghub/internal/blog"
	"github.com/tejash/bloghub/internal/config"
	"github.com/tejash/bloghub/internal/middleware"
	"github.com/tejash/bloghub/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── Credential store (PostgreSQL, memory fallback) ───────
	var users auth.UserStore
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		users = pgStore
	} else {
		log.Println("POSTGRES_DSN not set, using in-memory user store")
		users = store.NewMemoryUserStore()
	}

	// ── Document store (MongoDB, memory fallback) ────────────
	var posts blog.PostStore
	var messages blog.MessageStore
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		mongoDB := mongoClient.Database(cfg.MongoDB)
		posts = store.NewMongoPostStore(ctx, mongoDB)
		messages = store.NewMongoMessageStore(mongoDB)
	} else {
		log.Println("MONGO_URI not set, using in-memory post store")
		posts = store.NewMemoryPostStore()
		messages = store.NewMemoryMessageStore()
	}

	// ── Image store (MinIO, placeholder fallback) ────────────
	var images blog.ImageStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connect: %v", err)
		}
		images = minioStore
	} else {
		log.Println("MINIO_ENDPOINT not set, uploads return a placeholder URL")
		images = store.NewMemoryImageStore()
	}

	// ── Login rate limiter (Redis, optional) ─────────────────
	var loginLimiter func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		loginLimiter = middleware.NewRateLimiter(rdb, "login", 5, time.Minute).Limit
	}

	// ── Tokens + seed admin ──────────────────────────────────
	tokens := auth.NewTokenService(cfg.JWTSecret)
	if err := auth.EnsureAdmin(ctx, users, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, tokens)
	blogHandler := blog.NewHandler(posts, messages, images)
	requireAuth := middleware.RequireAuth(tokens, users)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		if loginLimiter != nil {
			r.With(loginLimiter).Post("/login", authHandler.Login)
		} else {
			r.Post("/login", authHandler.Login)
		}
		r.With(requireAuth).Get("/user", authHandler.Me)
	})

	// Post routes (reads public, writes protected)
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", blogHandler.List)
		r.Get("/{slugOrID}", blogHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", blogHandler.Create)
			r.Put("/{id}", blogHandler.Update)
			r.Delete("/{id}", blogHandler.Delete)
		})
	})

	// Image upload (protected)
	r.With(requireAuth).Post("/api/upload", blogHandler.Upload)

	// Contact messages (public)
	r.Post("/api/contact", blogHandler.Contact)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
