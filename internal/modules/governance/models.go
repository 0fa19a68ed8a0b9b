package governance

import "time"

// ProposalStatus is the lifecycle state of a proposal
type ProposalStatus string

const (
	StatusActive   ProposalStatus = "active"
	StatusPassed   ProposalStatus = "passed"
	StatusRejected ProposalStatus = "rejected"
)

// Proposal is one governance item. Voters is keyed by wallet address;
// an address votes at most once per proposal.
type Proposal struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	VotesFor     float64         `json:"votes_for"`
	VotesAgainst float64         `json:"votes_against"`
	Quorum       float64         `json:"quorum"`
	Status       ProposalStatus  `json:"status"`
	EndsAt       time.Time       `json:"ends_at"`
	Voters       map[string]bool `json:"-"`
}

// QuorumReached reports whether total votes meet the quorum
func (p *Proposal) QuorumReached() bool {
	return p.VotesFor+p.VotesAgainst >= p.Quorum
}

func seedProposals(now time.Time) []*Proposal {
	return []*Proposal{
		{
			ID:           "PROP_001",
			Title:        "Add Bitcoin Treasury Basket",
			Description:  "Allocate up to 15% of the vault into a tokenized Bitcoin treasury basket to diversify beyond RWA yield.",
			VotesFor:     12500,
			VotesAgainst: 3200,
			Quorum:       20000,
			Status:       StatusActive,
			EndsAt:       now.Add(7 * 24 * time.Hour),
			Voters:       make(map[string]bool),
		},
		{
			ID:           "PROP_002",
			Title:        "Increase Real Estate Allocation",
			Description:  "Raise the REI target allocation ceiling to capture the current premium in tokenized real estate yields.",
			VotesFor:     8900,
			VotesAgainst: 7100,
			Quorum:       15000,
			Status:       StatusActive,
			EndsAt:       now.Add(5 * 24 * time.Hour),
			Voters:       make(map[string]bool),
		},
	}
}
