// Package main provides the entry point for airsig-server.
//
// airsig-server hosts the AirSig gesture-pairing service: it accepts
// recorded gesture paths, derives direction signatures, pairs sender
// and receiver sessions, and hands over encrypted payloads.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/airsig/airsig-go/internal/core/service"
	"github.com/airsig/airsig-go/internal/infra/buildinfo"
	"github.com/airsig/airsig-go/internal/infra/confloader"
	"github.com/airsig/airsig-go/internal/infra/shutdown"
	"github.com/airsig/airsig-go/internal/server/config"
	"github.com/airsig/airsig-go/internal/server/httpserver"
	"github.com/airsig/airsig-go/internal/storage/badgerstore"
	"github.com/airsig/airsig-go/internal/storage/memory"
	"github.com/airsig/airsig-go/internal/telemetry/logger"
	"github.com/airsig/airsig-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("airsig-server %s\n", buildinfo.String())
		return nil
	}

	// Load configuration
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting airsig-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	// Hot-reload the log level when the config file changes. Other
	// settings need a restart.
	if *configFile != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slogLogger))
		if err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		if err := watcher.Watch(*configFile); err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		watcher.OnChange(func(string) {
			reloaded, err := loadConfig(*configFile)
			if err != nil {
				log.Warn("config reload skipped", "error", err)
				return
			}
			if reloaded.Log.Level != logger.GetLevel() {
				logger.SetLevel(reloaded.Log.Level)
				log.Info("log level changed", "level", reloaded.Log.Level)
			}
		})
		watcher.StartAsync()
		defer watcher.Stop()
	}

	// Metric registry for the whole process.
	metrics := metric.NewRegistry()

	// In-memory store is the matching authority.
	store := memory.New()

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Optional durable archive. Waiting sessions are reseeded into the
	// store so a restart does not strand unexpired senders.
	svcOpts := []service.Option{
		service.WithMatchLimiter(service.NewMatchLimiterRegistry(cfg.Match.RatePerSecond, cfg.Match.Burst)),
		service.WithSweepObserver(func(count int) {
			if count > 0 {
				metrics.SessionsExpired.Add(float64(count))
			}
			metrics.SessionsWaiting.Set(float64(store.CountWaiting()))
		}),
	}
	if cfg.Storage.DataDir != "" {
		archiveCfg := badgerstore.DefaultConfig(cfg.Storage.DataDir)
		archiveCfg.SyncWrites = cfg.Storage.ArchiveSyncWrites
		archiveCfg.GCInterval = cfg.Storage.ArchiveGCInterval

		archive, err := badgerstore.Open(archiveCfg, slogLogger)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		archive.RegisterMetrics(metrics.Prometheus())

		recovered, err := archive.RecoverWaiting(context.Background(), time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("archive recovery: %w", err)
		}
		store.Load(recovered)
		log.Info("recovered waiting sessions from archive", "count", len(recovered))

		svcOpts = append(svcOpts, service.WithArchiver(archive))

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("closing session archive")
			return archive.Close()
		})
	}

	pairingSvc := service.NewPairingService(store, svcOpts...)
	metrics.SessionsWaiting.Set(float64(store.CountWaiting()))

	// Expired-session sweeper. Cancelled as the first shutdown hook so
	// it stops before the archive closes.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go pairingSvc.RunSweeper(sweepCtx, cfg.Storage.SweepInterval)
	shutdownHandler.OnShutdown(func(context.Context) error {
		stopSweeper()
		return nil
	})

	// Create HTTP router and server
	routerCfg := httpserver.DefaultRouterConfig()
	routerCfg.PairingService = pairingSvc
	routerCfg.Metrics = metrics
	routerCfg.Logger = slogLogger
	routerCfg.CORSAllowedOrigins = cfg.Server.HTTP.CORSOrigins

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, httpserver.NewRouter(routerCfg))

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	// Start HTTP server in goroutine
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	// Start with defaults
	cfg := config.Default()

	// Create loader with optional config file
	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)

	// Load and unmarshal
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger.
// Returns both the logger interface and slog.Logger for components that need it.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.SetDefault(log)

	return log, slog.Default(), nil
}
