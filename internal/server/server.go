package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linkwave/apiserver/config"
	"github.com/linkwave/apiserver/internal/avatar"
	"github.com/linkwave/apiserver/internal/db"
	"github.com/linkwave/apiserver/internal/events"
	"github.com/linkwave/apiserver/internal/handlers"
	"github.com/linkwave/apiserver/internal/services"
	"github.com/linkwave/apiserver/internal/storage"
	"github.com/linkwave/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *events.Bus
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	bus, err := newEventBus(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)
	likeRepo := store.NewLikeRepository(dbConn)
	followRepo := store.NewFollowRepository(dbConn)

	avatars := avatar.New(cfg.AvatarSize)

	userService := services.NewUserService(userRepo, followRepo, avatars, blobs)
	postService := services.NewPostService(postRepo, likeRepo, commentRepo, bus)
	followService := services.NewFollowService(followRepo, userRepo, bus)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		_ = bus.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/posts", func(r chi.Router) {
		handlers.PostRouter(r, postService, authMiddleware)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, followService, authMiddleware)
	})

	// The filesystem backend serves avatars straight off disk; object
	// store backends serve them from their own endpoints.
	if fsBackend, ok := blobs.Backend().(*storage.FilesystemClient); ok {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(fsBackend.Dir())))
		router.Get("/uploads/*", fileServer.ServeHTTP)
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
	}, nil
}

func newBlobStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	switch cfg.Backend {
	case "", "filesystem":
		backend, err := storage.NewFilesystemClient(cfg.UploadsDir)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	case "minio":
		backend, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	case "gcs":
		backend, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newEventBus(ctx context.Context, cfg config.EventsConfig) (*events.Bus, error) {
	switch cfg.Broker {
	case "", "none":
		return events.New(events.NewNoopBackend()), nil
	case "rabbitmq":
		backend, err := events.NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.New(backend), nil
	case "pubsub":
		backend, err := events.NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Broker)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.bus != nil {
		_ = s.bus.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
