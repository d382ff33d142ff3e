package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tuneport/config"
	"tuneport/core/auth"
	"tuneport/core/contract"
	"tuneport/db"
	"tuneport/draft"
	"tuneport/logger"
	"tuneport/repository"
	"tuneport/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.SetSecret(cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database with GORM: %v", err)
	}
	defer db.CloseGormDB()

	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	userRepo := repository.NewMySQLUserRepository(db.DB)
	releaseRepo := repository.NewGormReleaseRepository(db.GormDB)
	draftStore := draft.NewRedisStore(db.RedisClient)
	uploader := storage.NewUploader(cfg)
	generator := contract.NewGenerator()

	// Optional on-disk contract template override, hot-reloaded on change.
	if cfg.ContractTemplateDir != "" {
		stopWatch, err := contract.WatchTemplateDir(cfg.ContractTemplateDir, generator)
		if err != nil {
			logger.Warn("contract template watcher unavailable", logger.ErrorField(err))
		} else {
			defer stopWatch()
		}
	}

	apiHandler := NewAPIHandler(userRepo, releaseRepo, draftStore, uploader, generator, cfg)
	defer apiHandler.StopAutosavers()

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth endpoints
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)

	// Draft endpoints: the wizard state lives here
	router.HandleFunc("/api/drafts", apiHandler.AuthMiddleware(apiHandler.CreateDraftHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts", apiHandler.AuthMiddleware(apiHandler.ListDraftsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/drafts/{id}", apiHandler.AuthMiddleware(apiHandler.GetDraftHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/drafts/{id}", apiHandler.AuthMiddleware(apiHandler.SaveDraftHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/drafts/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteDraftHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/drafts/{id}/autosave", apiHandler.AuthMiddleware(apiHandler.AutosaveDraftHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/drafts/{id}/flush", apiHandler.AuthMiddleware(apiHandler.FlushDraftHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts/{id}/advance", apiHandler.AuthMiddleware(apiHandler.AdvanceStepHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts/{id}/back", apiHandler.AuthMiddleware(apiHandler.BackStepHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts/{id}/tracks", apiHandler.AuthMiddleware(apiHandler.AddTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts/{id}/tracks/{index}", apiHandler.AuthMiddleware(apiHandler.RemoveTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/drafts/{id}/tracks/{index}/move", apiHandler.AuthMiddleware(apiHandler.MoveTrackHandler)).Methods(http.MethodPost)

	// Contract endpoints
	router.HandleFunc("/api/drafts/{id}/contract", apiHandler.AuthMiddleware(apiHandler.ContractPreviewHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts/{id}/contract/pdf", apiHandler.AuthMiddleware(apiHandler.ContractPDFHandler)).Methods(http.MethodPost)

	// Submission and releases
	router.HandleFunc("/api/drafts/{id}/submit", apiHandler.AuthMiddleware(apiHandler.SubmitReleaseHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/releases", apiHandler.AuthMiddleware(apiHandler.ListReleasesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/releases/{id}", apiHandler.AuthMiddleware(apiHandler.GetReleaseHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/releases/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateReleaseHandler)).Methods(http.MethodPut)

	// Media uploads
	router.HandleFunc("/api/upload/audio", apiHandler.AuthMiddleware(apiHandler.UploadAudioHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/upload/cover", apiHandler.AuthMiddleware(apiHandler.UploadCoverHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/drafts/{id}/upload/batch", apiHandler.AuthMiddleware(apiHandler.BatchUploadHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/ws/progress", apiHandler.ProgressSocketHandler).Methods(http.MethodGet)

	// Moderation (managers and directors)
	router.HandleFunc("/api/moderation/releases", apiHandler.ModeratorMiddleware(apiHandler.ModerationListHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/moderation/releases/{id}/approve", apiHandler.ModeratorMiddleware(apiHandler.ApproveReleaseHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/moderation/releases/{id}/reject", apiHandler.ModeratorMiddleware(apiHandler.RejectReleaseHandler)).Methods(http.MethodPost)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.ListenAddr)
		log.Println("Manage drafts via /api/drafts endpoints")
		log.Println("Upload media via /api/upload/audio and /api/upload/cover")
		log.Println("Moderate releases via /api/moderation/releases endpoints")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
