package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/modules/governance"
)

// ProposalCloseJob closes governance proposals past their voting window
type ProposalCloseJob struct {
	gov *governance.Service
	log zerolog.Logger
}

// NewProposalCloseJob creates a new proposal close job
func NewProposalCloseJob(govSvc *governance.Service, log zerolog.Logger) *ProposalCloseJob {
	return &ProposalCloseJob{
		gov: govSvc,
		log: log.With().Str("job", "proposal_close").Logger(),
	}
}

// Name returns the job name
func (j *ProposalCloseJob) Name() string {
	return "proposal_close"
}

// Run closes every expired proposal
func (j *ProposalCloseJob) Run() error {
	closed := j.gov.CloseExpired()
	for _, p := range closed {
		j.log.Info().Str("proposal_id", p.ID).Str("status", string(p.Status)).Msg("Proposal closed")
	}
	return nil
}
