package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/services"
)

// AutoRebalanceJob rebalances the book when momentum crosses the
// configured threshold and auto mode is enabled
type AutoRebalanceJob struct {
	vault *services.VaultService
	log   zerolog.Logger
}

// NewAutoRebalanceJob creates a new auto-rebalance job
func NewAutoRebalanceJob(vault *services.VaultService, log zerolog.Logger) *AutoRebalanceJob {
	return &AutoRebalanceJob{
		vault: vault,
		log:   log.With().Str("job", "auto_rebalance").Logger(),
	}
}

// Name returns the job name
func (j *AutoRebalanceJob) Name() string {
	return "auto_rebalance"
}

// Run checks the momentum threshold and rebalances when it is exceeded
func (j *AutoRebalanceJob) Run() error {
	return j.vault.CheckAutoRebalance()
}
