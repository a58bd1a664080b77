package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"lexical/internal/config"
	"lexical/internal/kv"
	"lexical/internal/sample"
	"lexical/internal/vocab"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logFatal("Failed to load configuration: %v", err)
	}
	logInfo("Starting Lexical in %s mode", map[bool]string{true: "production", false: "development"}[cfg.IsProduction()])
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	storage, err := kv.Open(context.Background(), cfg.StorageBackend, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		logFatal("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	logInfo("Using %s storage", cfg.StorageBackend)

	app := newApp(cfg, storage)
	defer func() {
		if err := app.Storage.Close(); err != nil {
			logWarn("Failed to close storage: %v", err)
		}
	}()
	counts := app.Store.CountByKind(context.Background())
	logInfo("Loaded vocabulary %s", counts)

	app.startJanitor()
	defer app.Scheduler.Stop()

	startServer(app.setupRouter(), cfg.Port)
}

// newApp wires the store and empty session tables around storage.
func newApp(cfg *config.Config, storage kv.Storage) *App {
	return &App{
		Config:       cfg,
		Storage:      storage,
		Store:        vocab.NewStore(storage),
		IsProduction: cfg.IsProduction(),
		StartTime:    time.Now(),
		ExamSessions: make(map[string]*ExamSession),
		GameSessions: make(map[string]*GameSession),
		LimiterMap:   make(map[string]*clientLimiter),
		newRand:      func() *rand.Rand { return sample.NewSource() },
		clock:        time.Now,
	}
}

func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestIDMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedPaths([]string{RouteGameTimer})))
	router.Use(noStoreMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	limited := app.rateLimitMiddleware()

	router.GET(RouteEntries, app.listEntriesHandler)
	router.GET(RouteEntry, app.getEntryHandler)
	router.POST(RouteEntries, limited, app.addEntryHandler)
	router.PUT(RouteEntry, limited, app.updateEntryHandler)
	router.DELETE(RouteEntry, limited, app.removeEntryHandler)
	router.GET(RouteCounts, app.countsHandler)

	router.GET(RouteExam, app.examStateHandler)
	router.POST(RouteExamStart, limited, app.examStartHandler)
	router.POST(RouteExamAnswer, limited, app.examAnswerHandler)
	router.DELETE(RouteExam, app.examAbandonHandler)

	router.GET(RouteGame, app.gameBoardHandler)
	router.POST(RouteGameStart, limited, app.gameStartHandler)
	router.POST(RouteGameSelect, limited, app.gameSelectHandler)
	router.GET(RouteGameTimer, app.gameTimerHandler)
	router.DELETE(RouteGame, app.gameAbandonHandler)

	router.GET(RouteHealthCheck, app.healthzHandler)
	return router
}

// noStoreMiddleware marks every API response as uncacheable.
func noStoreMiddleware() gin.HandlerFunc {
	return cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
}

func startServer(router *gin.Engine, port string) {
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// The game timer is a long-lived event stream.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
