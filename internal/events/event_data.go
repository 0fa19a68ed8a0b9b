package events

// EventData is the interface that all typed event payloads implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// PriceUpdatedData contains data for PriceUpdated events
type PriceUpdatedData struct {
	AssetID    string  `json:"asset_id"`
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Change24h  float64 `json:"change_24h"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// EventType returns the event type for PriceUpdatedData
func (d *PriceUpdatedData) EventType() EventType {
	return PriceUpdated
}

// SharesMintedData contains data for SharesMinted events
type SharesMintedData struct {
	Owner      string  `json:"owner"`
	Shares     float64 `json:"shares"`
	QXAmount   float64 `json:"qx_amount"`
	ShareValue float64 `json:"share_value"`
	LotID      string  `json:"lot_id"`
}

// EventType returns the event type for SharesMintedData
func (d *SharesMintedData) EventType() EventType {
	return SharesMinted
}

// SharesBurnedData contains data for SharesBurned events
type SharesBurnedData struct {
	Owner      string  `json:"owner"`
	Shares     float64 `json:"shares"`
	QXReturned float64 `json:"qx_returned"`
	ShareValue float64 `json:"share_value"`
}

// EventType returns the event type for SharesBurnedData
func (d *SharesBurnedData) EventType() EventType {
	return SharesBurned
}

// RebalancedData contains data for Rebalanced events
type RebalancedData struct {
	EventID     string             `json:"event_id"`
	Reason      string             `json:"reason"`
	Allocations map[string]float64 `json:"allocations"`
	YieldDelta  float64            `json:"yield_delta"`
}

// EventType returns the event type for RebalancedData
func (d *RebalancedData) EventType() EventType {
	return Rebalanced
}

// CompoundedData contains data for Compounded events
type CompoundedData struct {
	EventID       string  `json:"event_id"`
	Amount        float64 `json:"amount"`
	NewShareValue float64 `json:"new_share_value"`
	APY           float64 `json:"apy"`
	TotalShares   float64 `json:"total_shares"`
}

// EventType returns the event type for CompoundedData
func (d *CompoundedData) EventType() EventType {
	return Compounded
}

// VoteCastData contains data for VoteCast events
type VoteCastData struct {
	ProposalID string  `json:"proposal_id"`
	Owner      string  `json:"owner"`
	Support    bool    `json:"support"`
	Weight     float64 `json:"weight"`
}

// EventType returns the event type for VoteCastData
func (d *VoteCastData) EventType() EventType {
	return VoteCast
}

// ProposalClosedData contains data for ProposalClosed events
type ProposalClosedData struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status"`
}

// EventType returns the event type for ProposalClosedData
func (d *ProposalClosedData) EventType() EventType {
	return ProposalClosed
}

// NotificationSetData contains data for NotificationSet events
type NotificationSetData struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// EventType returns the event type for NotificationSetData
func (d *NotificationSetData) EventType() EventType {
	return NotificationSet
}
