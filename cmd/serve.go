package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales_management/api"
	"sales_management/internal/config"
	"sales_management/internal/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Warn("closing database pool", zap.Error(err))
		}
	}()

	router := api.NewRouter(cfg, api.NewServices(cfg, conn, logger), logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

// openStore opens the pool, then migrates and seeds it. With demo fallback on,
// an unreachable store is logged and the server still starts.
func openStore(cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	conn, err := db.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	err = prepareStore(conn, cfg)
	if err == nil {
		return conn, nil
	}
	if cfg.App.DemoFallback {
		logger.Warn("database unavailable at startup, serving demo data until it recovers", zap.Error(err))
		return conn, nil
	}
	_ = db.Close(conn)
	return nil, err
}

func prepareStore(conn *gorm.DB, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if cfg.App.MigrateOnStart {
		if err := db.Migrate(conn); err != nil {
			return err
		}
	}
	return db.Seed(conn, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
}
