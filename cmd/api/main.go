package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/finance"
	finboardHttp "github.com/MrJamesThe3rd/finboard/internal/http"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	financeHandler "github.com/MrJamesThe3rd/finboard/internal/http/finance"
	importHandler "github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	rulesHandler "github.com/MrJamesThe3rd/finboard/internal/http/rules"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/notify/amqp"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
	rulesStore "github.com/MrJamesThe3rd/finboard/internal/rules/store"
	"github.com/MrJamesThe3rd/finboard/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.LogFormat, os.Stdout)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []finance.Option{
		finance.WithLogger(logger.Component(log, "finance")),
		finance.WithSeed(cfg.Finance.SeedSampleData),
	}

	if cfg.AMQP.URL != "" {
		publisher, err := amqp.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, logger.Component(log, "amqp"))
		if err != nil {
			return fmt.Errorf("connecting to AMQP: %w", err)
		}
		defer publisher.Close()

		opts = append(opts, finance.WithPublisher(publisher))
	}

	engine, err := finance.New(ctx, store, opts...)
	if err != nil {
		return fmt.Errorf("loading finance state: %w", err)
	}

	var (
		rulesService  = rules.NewService(rulesStore.New(store))
		importService = importer.NewService(rulesService)
		exportService = export.NewService(engine)
	)

	var (
		financeH = financeHandler.NewHandler(engine)
		importH  = importHandler.NewHandler(importService, engine)
		rulesH   = rulesHandler.NewHandler(rulesService)
		exportH  = exportHandler.NewHandler(exportService)
	)

	router := finboardHttp.New(finboardHttp.Options{
		Logger:         log,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	}, financeH, importH, rulesH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", "port", srv.Addr, "backend", cfg.Store.Backend)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped gracefully")

	return nil
}
