package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harmony-Global/harmony-admin/internal"
	"github.com/Harmony-Global/harmony-admin/internal/auth"
	"github.com/Harmony-Global/harmony-admin/internal/directory"
	"github.com/Harmony-Global/harmony-admin/internal/gateway"
	"github.com/Harmony-Global/harmony-admin/internal/storage"
	"github.com/Harmony-Global/harmony-admin/internal/transport/rest"
	"github.com/Harmony-Global/harmony-admin/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	SQLDb   *sqlx.DB
	Router  *chi.Mux
	AuthSvc *auth.Handler
	UserSvc *directory.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.SQLDb, deps.AuthSvc, deps.UserSvc, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.SQLDb.Close(); err != nil {
			slog.Error("Record store close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, xdb, err := initStore(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	store := storage.NewGormStore(db)
	gw := gateway.NewClient(config.Upstream.Timeout, lg)

	sessions := auth.NewSessionContext(context.Background(), store, lg)
	authService := auth.NewService(gw, store, sessions, config.Upstream.LoginURL, lg)

	directoryService := directory.NewService(gw, store, directory.Endpoints{
		UsersURL:       config.Upstream.UsersURL,
		UserDetailsURL: config.Upstream.UserDetailsURL,
	}, lg)

	return &Dependencies{
		Config:  config,
		Logger:  lg,
		DB:      db,
		SQLDb:   xdb,
		Router:  chi.NewRouter(),
		AuthSvc: auth.NewHandler(authService),
		UserSvc: directory.NewHandler(directoryService),
	}, nil
}

// initStore opens the record store database through GORM and wraps the
// underlying connection in sqlx for health checks.
func initStore(cfg internal.StorageConfig) (*gorm.DB, *sqlx.DB, error) {
	var dialector gorm.Dialector
	driver := "sqlite3"

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Source)
		driver = "pgx"
	default:
		dialector = sqlite.Open(cfg.Source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open record store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unwrap record store connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	xdb := sqlx.NewDb(sqlDB, driver)
	if err := xdb.Ping(); err != nil {
		_ = xdb.Close()
		return nil, nil, fmt.Errorf("failed to ping record store: %w", err)
	}

	return db, xdb, nil
}
