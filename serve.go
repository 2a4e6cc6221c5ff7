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

	"newsup/api"
	"newsup/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Debug && !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := store.NewMongo(connectCtx, store.Config{
		URI:                 cfg.Mongo.URI,
		NewsDatabase:        cfg.Mongo.NewsDatabase,
		ResourcesDatabase:   cfg.Mongo.ResourcesDatabase,
		ResourcesCollection: cfg.Mongo.ResourcesCollection,
	})
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()

	router := api.NewRouter(api.Options{
		Store:          db,
		Logger:         logger,
		Newspapers:     cfg.Newspapers,
		Categories:     cfg.Categories,
		RequestTimeout: cfg.RequestTimeout,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			zap.String("addr", srv.Addr),
			zap.String("database", cfg.Mongo.NewsDatabase),
			zap.Strings("newspapers", cfg.Newspapers))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
