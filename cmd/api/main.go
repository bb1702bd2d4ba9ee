package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"filebox/internal/blob"
	"filebox/internal/cache"
	"filebox/internal/config"
	"filebox/internal/database"
	"filebox/internal/domain/files"
	"filebox/internal/domain/sessions"
	"filebox/internal/domain/status"
	"filebox/internal/domain/users"
	"filebox/internal/middleware"
	"filebox/internal/queue"
	"filebox/internal/thumbnail"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&users.User{}, &files.File{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	sessionCache, err := cache.Open(cfg.CacheDir)
	if err != nil {
		log.Fatalf("cache open failed: %v", err)
	}
	defer sessionCache.Close()

	jobQueue, err := queue.Open(cfg.QueueDir, cfg.WorkerMaxAttempts)
	if err != nil {
		log.Fatalf("queue open failed: %v", err)
	}
	defer jobQueue.Close()

	blobs, err := blob.New(cfg.StorageDir)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	userRepo := users.NewRepository(db)
	fileRepo := files.NewRepository(db)

	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(userService)

	sessionService := sessions.NewService(userRepo, sessionCache, cfg.SessionTTL)
	sessionHandler := sessions.NewHandler(sessionService)

	fileService := files.NewService(fileRepo, blobs, jobQueue)
	fileHandler := files.NewHandler(fileService)

	statusHandler := status.NewHandler(
		sessionCache.Alive,
		func() bool { return database.Alive(db) },
		userRepo,
		fileRepo,
		jobQueue,
	)

	// The queue directory is held exclusively by this process, so the
	// thumbnail worker runs alongside the server instead of as a
	// separate binary.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := thumbnail.NewWorker(jobQueue, fileRepo, blobs, cfg.WorkerPollInterval)
	go worker.Run(ctx)

	r := gin.Default()
	r.Use(middleware.CORS())

	root := r.Group("/")
	{
		// public
		users.RegisterRoutes(root, userHandler)
		sessions.RegisterRoutes(root, sessionHandler)
		status.RegisterRoutes(root, statusHandler)

		// optional auth: public content stays readable anonymously
		content := root.Group("/")
		content.Use(middleware.OptionalAuth(sessionService))
		files.RegisterContentRoutes(content, fileHandler)

		// protected
		protected := root.Group("/")
		protected.Use(middleware.Auth(sessionService))
		{
			users.RegisterProtectedRoutes(protected, userHandler)
			files.RegisterRoutes(protected, fileHandler)
			status.RegisterProtectedRoutes(protected, statusHandler)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
