// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"semantus/internal/config"
	"semantus/internal/embedding"
	"semantus/internal/game"
	"semantus/internal/handlers"
	"semantus/internal/lemma"
	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/repository"
	"semantus/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	// === Database ===
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := db.AutoMigrate(
		&model.User{},
		&model.Word{},
		&model.GameSession{},
		&model.Participant{},
		&model.Invitation{},
		&model.GuessRecord{},
	); err != nil {
		slog.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// === 埋め込みインデックスの構築 ===
	lem, err := lemma.New(&config.Cfg)
	if err != nil {
		slog.Error("Error initializing lemmatizer", slog.Any("error", err))
		os.Exit(1)
	}

	corpusFile, err := os.Open(config.Cfg.Corpus.Path)
	if err != nil {
		slog.Error("Error opening corpus file", slog.String("path", config.Cfg.Corpus.Path), slog.Any("error", err))
		os.Exit(1)
	}
	buildStart := time.Now()
	idx, err := embedding.Build(context.Background(), corpusFile, lem)
	corpusFile.Close()
	if err != nil {
		slog.Error("Error building embedding index", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Embedding index built",
		slog.Int("vocabulary", idx.Len()),
		slog.Int("dimension", idx.Dimension()),
		slog.Duration("elapsed", time.Since(buildStart)),
	)

	engine := embedding.NewSimilarityEngine(idx)
	directory := game.NewDirectory()
	processor := game.NewProcessor(idx, engine, lem)

	// === Dependency Injection ===
	userRepo := repository.NewGormUserRepository()
	wordRepo := repository.NewGormWordRepository()
	gameRepo := repository.NewGormGameRepository()

	mailer := service.NewMailer(&config.Cfg)
	userService := service.NewUserService(db, userRepo)
	vocabService := service.NewVocabService(db, wordRepo)
	gameService := service.NewGameService(db, gameRepo, userRepo, directory, processor, engine, idx, mailer, &config.Cfg)

	// 語彙テーブルの投入 (冪等)
	if created, err := vocabService.PopulateWords(context.Background(), idx.Lemmas()); err != nil {
		slog.Error("Error populating words table", slog.Any("error", err))
		os.Exit(1)
	} else if created > 0 {
		slog.Info("Vocabulary persisted", slog.Int("count", created))
	}

	var verifier middleware.TokenVerifier
	if config.Cfg.Auth.Enabled {
		verifier = middleware.NewJWTVerifier(&config.Cfg)
	}

	userHandler := handlers.NewUserHandler(userService, verifier, logger)
	gameHandler := handlers.NewGameHandler(gameService, logger)

	// === Router ===
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/users", userHandler.PostSignup)
		r.Get("/users/check-username", userHandler.GetUsernameCheck)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			if config.Cfg.Auth.Enabled {
				slog.Info("Applying production authentication middleware")
				r.Use(middleware.AuthMiddleware(verifier, userService))
			} else {
				slog.Warn("Authentication disabled, using development user header")
				r.Use(middleware.DevUserContextMiddleware)
			}

			r.Get("/users/me", userHandler.GetMe)
			r.Put("/users/me", userHandler.PutMe)

			r.Route("/games", func(r chi.Router) {
				r.Post("/", gameHandler.PostGame)
				r.Get("/{session_id}", gameHandler.GetGame)
				r.Delete("/{session_id}", gameHandler.DeleteGame)
				r.Post("/{session_id}/guesses", gameHandler.PostGuess)
				r.Post("/{session_id}/invitations", gameHandler.PostInvite)
				r.Post("/{session_id}/invitations/response", gameHandler.PostInvitationResponse)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 終端状態のセッションを定期的にメモリから掃除する
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(config.Cfg.Game.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gameService.SweepExpired(sweepCtx)
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	// === Server ===
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
