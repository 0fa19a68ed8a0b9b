package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/services"
)

// AutoCompoundJob runs the demo-mode compounding pass. The compounding
// service's own interval gate decides whether a pass actually happens.
type AutoCompoundJob struct {
	vault *services.VaultService
	log   zerolog.Logger
}

// NewAutoCompoundJob creates a new auto-compound job
func NewAutoCompoundJob(vault *services.VaultService, log zerolog.Logger) *AutoCompoundJob {
	return &AutoCompoundJob{
		vault: vault,
		log:   log.With().Str("job", "auto_compound").Logger(),
	}
}

// Name returns the job name
func (j *AutoCompoundJob) Name() string {
	return "auto_compound"
}

// Run attempts one compounding pass at a randomized demo APY
func (j *AutoCompoundJob) Run() error {
	return j.vault.AutoCompound()
}
