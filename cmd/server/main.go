package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-mairie/internal/config"
	"github.com/diewo77/go-mairie/internal/db"
	"github.com/diewo77/go-mairie/internal/logging"
	"github.com/diewo77/go-mairie/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mairie",
	Short: "Town hall document management API",
	Long: `mairie serves the JSON API used by town hall staff to manage the
mairie record, citizens, document templates and generated documents.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log, cfg.App.Dev)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close(conn)
		logger.Info("migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default administrator if no user exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close(conn)
		return seed(cmd.Context(), conn)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB connects and migrates.
func openDB() (*gorm.DB, error) {
	conn, err := db.Connect(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn, cfg, logger); err != nil {
		_ = db.Close(conn)
		return nil, err
	}
	return conn, nil
}

func seed(ctx context.Context, conn *gorm.DB) error {
	created, err := db.Seed(ctx, conn, cfg.Auth)
	if err != nil {
		return err
	}
	if created {
		logger.Info("default administrator created", zap.String("username", cfg.Auth.AdminUsername))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close(conn)

	ctx := cmd.Context()
	if cfg.App.Seed {
		if err := seed(ctx, conn); err != nil {
			return err
		}
	}
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	app := NewApp(cfg, conn, store, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
