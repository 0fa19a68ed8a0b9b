package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/modules/oracle"
)

// OracleTickJob advances the synthetic price feed by one step
type OracleTickJob struct {
	oracle *oracle.Service
	log    zerolog.Logger
}

// NewOracleTickJob creates a new oracle tick job
func NewOracleTickJob(oracleSvc *oracle.Service, log zerolog.Logger) *OracleTickJob {
	return &OracleTickJob{
		oracle: oracleSvc,
		log:    log.With().Str("job", "oracle_tick").Logger(),
	}
}

// Name returns the job name
func (j *OracleTickJob) Name() string {
	return "oracle_tick"
}

// Run perturbs every asset's price once
func (j *OracleTickJob) Run() error {
	updates := j.oracle.Tick()
	j.log.Trace().Int("updates", len(updates)).Msg("Oracle ticked")
	return nil
}
