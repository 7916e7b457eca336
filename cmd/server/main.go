/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Bridge Planner HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, BRIDGE_* environment, TOML file, flags)
  2. Build the logger
  3. Initialize SQLite store and seed the holiday dataset
  4. Create holiday provider, optimizer and worker pool
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config file (default: bridge.toml, optional)
  -port    HTTP server port, overrides config
  -db      SQLite database path, overrides config
           Use ":memory:" for in-memory database

HOLIDAY DATA:
  On an empty database the embedded dataset is imported, or the file named
  by holidays_file / BRIDGE_HOLIDAYS_FILE when set. A configured file is
  re-imported on every start so edits take effect.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the worker pool
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/bridge.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port with JSON logs
  BRIDGE_LOG_FORMAT=json ./server -port=3000

SEE ALSO:
  - config/config.go: Settings and precedence
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/bridge-planner/api"
	"github.com/warp/bridge-planner/config"
	"github.com/warp/bridge-planner/holidays"
	"github.com/warp/bridge-planner/optimizer"
	"github.com/warp/bridge-planner/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "bridge.toml", "TOML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server failed")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	if err := seedHolidays(ctx, store, cfg.HolidaysFile, logger); err != nil {
		return err
	}
	dataset, err := store.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}

	provider := holidays.NewProvider(dataset, cfg.CacheSize)
	opt, err := optimizer.New(provider,
		optimizer.WithLogger(logger),
		optimizer.WithDailyRate(cfg.DailyRate),
		optimizer.WithCacheSize(cfg.CacheSize),
	)
	if err != nil {
		return fmt.Errorf("create optimizer: %w", err)
	}

	worker := api.NewPlanWorker(opt, cfg.Workers, logger)
	worker.Start()
	defer worker.Stop()

	handler := api.NewHandler(store, provider, opt, worker, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"db":        cfg.DBPath,
			"countries": len(dataset.Countries()),
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// seedHolidays imports the holiday file, or the embedded dataset into an
// empty database.
func seedHolidays(ctx context.Context, store *sqlite.Store, file string, logger logrus.FieldLogger) error {
	if file != "" {
		ds, err := holidays.LoadFile(file)
		if err != nil {
			return fmt.Errorf("read holidays file: %w", err)
		}
		if err := store.ImportDataset(ctx, ds); err != nil {
			return fmt.Errorf("import holidays: %w", err)
		}
		logger.WithField("file", file).Info("imported holidays file")
		return nil
	}

	n, err := store.CountHolidays(ctx)
	if err != nil {
		return fmt.Errorf("count holidays: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := store.ImportDataset(ctx, holidays.Default()); err != nil {
		return fmt.Errorf("import holidays: %w", err)
	}
	logger.Info("seeded embedded holiday dataset")
	return nil
}
