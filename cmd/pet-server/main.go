// Package main is the entry point for the Pocket Pet server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketpet/server/internal/engine"
	"github.com/pocketpet/server/internal/events"
	"github.com/pocketpet/server/internal/infra/speciesdoc"
	"github.com/pocketpet/server/internal/infra/storage"
	"github.com/pocketpet/server/internal/network"
	"github.com/pocketpet/server/internal/platform/config"
	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/platform/metrics"
	"github.com/pocketpet/server/internal/wardrobe"
)

// archivePersister writes events to the zstd archive and counts the outcome.
type archivePersister struct {
	writer  *events.ArchiveWriter
	metrics *metrics.Collector
}

func (a *archivePersister) Append(event events.PetEvent) error {
	err := a.writer.Append(event)
	a.metrics.RecordArchiveWrite(err)
	return err
}

func main() {
	configPath := flag.String("config", "pet.yaml", "Path to the YAML config file")
	flag.Parse()

	log.Println("[PET-SERVER] Initializing Pocket Pet server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.Error("Failed to load config: " + err.Error())
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		appLogger.Error("Failed to listen on " + cfg.ListenAddr + ": " + err.Error())
		os.Exit(1)
	}
	log.Printf("[PET-SERVER] HTTP API & WS Server listening on %s", ln.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, ln, appLogger)
	stop()
	if err != nil {
		appLogger.Error("Server failed: " + err.Error())
		os.Exit(1)
	}
}

// run serves on ln until ctx is cancelled. ln must already be bound: the
// engine fetches its species document at start, and by default that
// document is served by this same process.
func run(ctx context.Context, cfg *config.Config, ln net.Listener, appLogger *logger.Logger) error {
	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize sqlite: %w", err)
	}
	defer db.Close()
	prefs := storage.NewSQLiteKVStore(db)

	collector := metrics.Get()

	appLogger.Info("Bootstrapping EventLog...")
	var persister events.EventPersister
	if cfg.EventArchiveDir != "" {
		archive := events.NewArchiveWriter(cfg.EventArchiveDir, "pet-events")
		defer archive.Close()
		persister = &archivePersister{writer: archive, metrics: collector}
	}
	eventLog := events.NewBoundedEventLog(persister, cfg.EventLogCapacity)
	eventLog.OnPersistError(func(err error) {
		appLogger.Warn("Event archive write failed: " + err.Error())
	})

	var fetchOpts []speciesdoc.Option
	fetchOpts = append(fetchOpts, speciesdoc.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}))
	if !cfg.ValidateSpeciesDocs {
		fetchOpts = append(fetchOpts, speciesdoc.WithoutValidation())
	}
	fetcher, err := speciesdoc.NewFetcher(cfg.AssetBaseURL, fetchOpts...)
	if err != nil {
		return fmt.Errorf("build species fetcher: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger, collector)
	go hub.Run(ctx)

	petEngine := engine.NewEngine(network.NewFrameSurface(hub), prefs, fetcher, eventLog, appLogger, engine.Options{
		TickInterval:  cfg.TickInterval,
		SettleDelay:   cfg.SettleDelay,
		FetchTimeout:  cfg.FetchTimeout,
		MoodThreshold: cfg.MoodThreshold,
		QueueSize:     cfg.TaskQueueSize,
		Metrics:       collector,
	})

	// Setup API Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", network.ServeWS(ctx, hub, petEngine, cfg.ClientSendBuffer, appLogger))
	mux.HandleFunc("/api/state", network.StateHandler(petEngine, hub))
	network.NewReplayHandler(eventLog, appLogger).RegisterRoutes(mux)
	network.NewWardrobeAPI(wardrobe.New(prefs, appLogger), appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/metrics", collector.Handler())
	mux.HandleFunc("/metrics/prometheus", collector.PrometheusHandler())
	mux.Handle("/", network.AssetHandler(cfg.AssetDir))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	appLogger.Info("Bootstrapping pet engine...")
	petEngine.Start(ctx)

	log.Println("[PET-SERVER] Server running. Press Ctrl+C to exit.")

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Println("[PET-SERVER] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP shutdown: " + err.Error())
	}
	return nil
}
