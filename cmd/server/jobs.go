package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/config"
	"github.com/aristath/yieldforge/internal/modules/governance"
	"github.com/aristath/yieldforge/internal/modules/oracle"
	"github.com/aristath/yieldforge/internal/scheduler"
	"github.com/aristath/yieldforge/internal/services"
)

// registerJobs wires the background jobs onto the scheduler
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	oracleSvc *oracle.Service,
	govSvc *governance.Service,
	vaultSvc *services.VaultService,
	log zerolog.Logger,
) error {
	tickSchedule := fmt.Sprintf("@every %s", cfg.OracleTickInterval)
	if err := sched.AddJob(tickSchedule, scheduler.NewOracleTickJob(oracleSvc, log)); err != nil {
		return fmt.Errorf("failed to register oracle tick job: %w", err)
	}

	if err := sched.AddJob("@every 30s", scheduler.NewAutoRebalanceJob(vaultSvc, log)); err != nil {
		return fmt.Errorf("failed to register auto-rebalance job: %w", err)
	}

	if cfg.DemoMode {
		compoundSchedule := fmt.Sprintf("@every %s", cfg.DemoCompoundInterval)
		if err := sched.AddJob(compoundSchedule, scheduler.NewAutoCompoundJob(vaultSvc, log)); err != nil {
			return fmt.Errorf("failed to register auto-compound job: %w", err)
		}
	}

	if err := sched.AddJob("@every 1m", scheduler.NewProposalCloseJob(govSvc, log)); err != nil {
		return fmt.Errorf("failed to register proposal close job: %w", err)
	}

	return nil
}
