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

	"github.com/aristath/yieldforge/internal/clients/qubic"
	"github.com/aristath/yieldforge/internal/config"
	"github.com/aristath/yieldforge/internal/database"
	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
	"github.com/aristath/yieldforge/internal/modules/compounding"
	"github.com/aristath/yieldforge/internal/modules/governance"
	"github.com/aristath/yieldforge/internal/modules/ledger"
	"github.com/aristath/yieldforge/internal/modules/oracle"
	"github.com/aristath/yieldforge/internal/modules/rebalancing"
	"github.com/aristath/yieldforge/internal/modules/transactions"
	"github.com/aristath/yieldforge/internal/scheduler"
	"github.com/aristath/yieldforge/internal/server"
	"github.com/aristath/yieldforge/internal/services"
	"github.com/aristath/yieldforge/pkg/logger"
)

func main() {
	// Load configuration first so the log level is configurable
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting YieldForge")

	// History storage (in-memory sqlite by default; the demo is ephemeral)
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Event plumbing
	bus := events.NewBus(log)
	eventManager := events.NewManager(bus, log)

	// Repositories
	txRepo := transactions.NewRepository(db.Conn(), log)
	rebalanceRepo := rebalancing.NewRepository(db.Conn(), log)
	compoundRepo := compounding.NewRepository(db.Conn(), log)

	// Mock testnet client
	client := qubic.NewClient(cfg.StartingBalance, cfg.FaucetAmount, log, qubic.WithStore(txRepo))

	// Simulation modules
	oracleSvc := oracle.NewService(cfg.MaxChange24h, eventManager, log)
	ledgerSvc := ledger.NewService(cfg.MinDeposit, eventManager, log)
	rebalanceSvc := rebalancing.NewService(
		oracleSvc, rebalanceRepo, cfg.MaxAllocation,
		qubic.GasFee(domain.TxRebalance), eventManager, log,
	)

	compoundInterval := cfg.CompoundInterval
	if cfg.DemoMode {
		compoundInterval = cfg.DemoCompoundInterval
	}
	compoundSvc := compounding.NewService(
		ledgerSvc, compoundRepo, compoundInterval,
		cfg.ManagementFee, eventManager, log,
	)

	govSvc := governance.NewService(ledgerSvc, eventManager, log)

	// Orchestration layer
	notifySvc := services.NewNotificationService(cfg.NotificationTTL, eventManager, log)
	vaultSvc := services.NewVaultService(
		client, ledgerSvc, oracleSvc, rebalanceSvc, compoundSvc, govSvc,
		notifySvc, cfg.AutoRebalance, cfg.AutoRebalanceThreshold,
		eventManager, log,
	)
	snapshotSvc := services.NewSnapshotService(
		oracleSvc, ledgerSvc, rebalanceSvc, compoundSvc, govSvc,
		client, notifySvc, bus, log,
	)
	snapshotSvc.AttachVault(vaultSvc)

	// Background jobs
	sched := scheduler.New(log)
	if err := registerJobs(sched, cfg, oracleSvc, govSvc, vaultSvc, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP surface
	srv := server.New(server.Config{
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Log:      log,
		Cfg:      cfg,
		Vault:    vaultSvc,
		Snapshot: snapshotSvc,
		Notify:   notifySvc,
		TxRepo:   txRepo,
		Bus:      bus,
		Handlers: server.Handlers{
			Oracle:       oracle.NewHandler(oracleSvc, log),
			OracleStream: oracle.NewStreamHandler(bus, log),
			Ledger:       ledger.NewHandler(ledgerSvc, log),
			Rebalancing:  rebalancing.NewHandler(rebalanceSvc, log),
			Compounding:  compounding.NewHandler(compoundSvc, log),
			Governance:   governance.NewHandler(govSvc, log),
		},
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
