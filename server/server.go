package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abimdanu/openmusic-api/cache"
	"github.com/abimdanu/openmusic-api/config"
	"github.com/abimdanu/openmusic-api/core/auth"
	"github.com/abimdanu/openmusic-api/core/catalog"
	"github.com/abimdanu/openmusic-api/core/export"
	"github.com/abimdanu/openmusic-api/core/playlist"
	"github.com/abimdanu/openmusic-api/db"
	"github.com/abimdanu/openmusic-api/logger"
	"github.com/abimdanu/openmusic-api/queue"
	"github.com/abimdanu/openmusic-api/repository"
	"github.com/abimdanu/openmusic-api/storage"

	"github.com/gorilla/mux"
)

// APIHandler bundles the services behind the HTTP routes.
type APIHandler struct {
	albums    *catalog.AlbumService
	songs     *catalog.SongService
	playlists *playlist.Service
	exports   *export.Service
	users     repository.UserRepository
	covers    *storage.CoverStorage
	tokens    *auth.TokenManager
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(
	albums *catalog.AlbumService,
	songs *catalog.SongService,
	playlists *playlist.Service,
	exports *export.Service,
	users repository.UserRepository,
	covers *storage.CoverStorage,
	tokens *auth.TokenManager,
) *APIHandler {
	return &APIHandler{
		albums:    albums,
		songs:     songs,
		playlists: playlists,
		exports:   exports,
		users:     users,
		covers:    covers,
		tokens:    tokens,
	}
}

// Start wires clients, repositories and services, then serves HTTP
// until an interrupt arrives. Clients are constructed once here and
// injected; they are closed on the way out.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer conn.Close()

	if err := db.InitSchema(conn); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()
	logger.Info("Successfully connected to Redis")

	covers, err := storage.NewCoverStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize cover storage", logger.ErrorField(err))
	}

	albumRepo := repository.NewMySQLAlbumRepository(conn)
	songRepo := repository.NewMySQLSongRepository(conn)
	playlistRepo := repository.NewMySQLPlaylistRepository(conn)
	collaborationRepo := repository.NewMySQLCollaborationRepository(conn)
	userRepo := repository.NewMySQLUserRepository(conn)

	store := cache.NewRedisStore(redisClient)
	producer := queue.NewRedisProducer(redisClient)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	albumService := catalog.NewAlbumService(albumRepo, songRepo, store, cfg.CacheTTL)
	songService := catalog.NewSongService(songRepo, store)
	playlistService := playlist.NewService(playlistRepo, collaborationRepo, songRepo, userRepo)
	exportService := export.NewService(playlistService, producer, cfg.ExportTopic)

	apiHandler := NewAPIHandler(albumService, songService, playlistService, exportService, userRepo, covers, tokens)

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", sourceHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Users and authentication
	router.HandleFunc("/users", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/authentications", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Albums
	router.HandleFunc("/albums", apiHandler.CreateAlbumHandler).Methods(http.MethodPost)
	router.HandleFunc("/albums/{id}", apiHandler.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/albums/{id}", apiHandler.UpdateAlbumHandler).Methods(http.MethodPut)
	router.HandleFunc("/albums/{id}", apiHandler.DeleteAlbumHandler).Methods(http.MethodDelete)
	router.HandleFunc("/albums/{id}/covers", apiHandler.UploadAlbumCoverHandler).Methods(http.MethodPost)
	router.HandleFunc("/albums/{id}/likes", apiHandler.AuthMiddleware(apiHandler.LikeAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/albums/{id}/likes", apiHandler.AuthMiddleware(apiHandler.UnlikeAlbumHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/albums/{id}/likes", apiHandler.GetAlbumLikesHandler).Methods(http.MethodGet)

	// Songs
	router.HandleFunc("/songs", apiHandler.CreateSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/songs", apiHandler.ListSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}", apiHandler.GetSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}", apiHandler.UpdateSongHandler).Methods(http.MethodPut)
	router.HandleFunc("/songs/{id}", apiHandler.DeleteSongHandler).Methods(http.MethodDelete)

	// Playlists
	router.HandleFunc("/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists", apiHandler.AuthMiddleware(apiHandler.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.AddPlaylistSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.GetPlaylistSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.RemovePlaylistSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{id}/activities", apiHandler.AuthMiddleware(apiHandler.GetPlaylistActivitiesHandler)).Methods(http.MethodGet)

	// Collaborations
	router.HandleFunc("/collaborations", apiHandler.AuthMiddleware(apiHandler.AddCollaborationHandler)).Methods(http.MethodPost)
	router.HandleFunc("/collaborations", apiHandler.AuthMiddleware(apiHandler.DeleteCollaborationHandler)).Methods(http.MethodDelete)

	// Exports
	router.HandleFunc("/export/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.ExportPlaylistHandler)).Methods(http.MethodPost)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", logger.ErrorField(err))
	}
}
