package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/clients/qubic"
	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
	"github.com/aristath/yieldforge/internal/modules/compounding"
	"github.com/aristath/yieldforge/internal/modules/governance"
	"github.com/aristath/yieldforge/internal/modules/ledger"
	"github.com/aristath/yieldforge/internal/modules/oracle"
	"github.com/aristath/yieldforge/internal/modules/rebalancing"
)

// Protocol metric seeds. The demo starts from an established-looking
// protocol rather than zeros; live activity drifts the figures from here.
const (
	seedTVL         = 2_847_500.0
	seedUsers       = 1_247
	seedDailyVolume = 458_000.0
	seedRevenue     = 14_237.0
	seedTotalShares = 1_000_000.0

	circulatingRatio = 0.7
	revenueFeeRate   = 0.005
	daysPerYear      = 365.0
)

// ProtocolMetrics is the aggregate protocol view shown on the dashboard
type ProtocolMetrics struct {
	TVL            float64   `json:"tvl"`
	TotalUsers     int       `json:"total_users"`
	DailyVolume    float64   `json:"daily_volume"`
	Revenue        float64   `json:"revenue"`
	AverageAPY     float64   `json:"average_apy"`
	RebalanceCount int       `json:"rebalance_count"`
	LastRebalance  time.Time `json:"last_rebalance"`
	NextCompoundAt time.Time `json:"next_compound_at"`
}

// IPOStats is the share-offering view shown on the dashboard
type IPOStats struct {
	TotalShares       float64 `json:"total_shares"`
	CirculatingSupply float64 `json:"circulating_supply"`
	SharePrice        float64 `json:"share_price"`
	MarketCap         float64 `json:"market_cap"`
	Volume24h         float64 `json:"volume_24h"`
	Holders           int     `json:"holders"`
}

// Snapshot is the one consistent application state view
type Snapshot struct {
	Assets        []oracle.Asset        `json:"assets"`
	Portfolio     *ledger.Snapshot      `json:"portfolio,omitempty"`
	Wallet        *domain.Wallet        `json:"wallet,omitempty"`
	CurrentAPY    float64               `json:"current_apy"`
	TVL           float64               `json:"tvl"`
	ShareValue    float64               `json:"share_value"`
	Metrics       ProtocolMetrics       `json:"metrics"`
	IPO           IPOStats              `json:"ipo"`
	Rebalances    []rebalancing.Event   `json:"rebalances"`
	Compounds     []compounding.Event   `json:"compounds"`
	Proposals     []governance.Proposal `json:"proposals"`
	Transactions  []domain.Transaction  `json:"transactions"`
	Notification  *domain.Notification  `json:"notification,omitempty"`
	AutoRebalance bool                  `json:"auto_rebalance"`
}

// SnapshotService aggregates module state into one consistent view and
// maintains the drifting protocol metrics. It listens on the event bus so
// deposits, withdrawals, rebalances, and compounds move the figures.
type SnapshotService struct {
	mu          sync.Mutex
	users       int
	dailyVolume float64
	revenue     float64
	volume24h   float64

	oracle    *oracle.Service
	ledger    *ledger.Service
	rebalance *rebalancing.Service
	compound  *compounding.Service
	gov       *governance.Service
	client    *qubic.Client
	notify    *NotificationService
	vault     *VaultService

	rng *rand.Rand
	log zerolog.Logger
}

// NewSnapshotService creates the aggregator and wires its bus listeners
func NewSnapshotService(
	oracleSvc *oracle.Service,
	ledgerSvc *ledger.Service,
	rebalanceSvc *rebalancing.Service,
	compoundSvc *compounding.Service,
	govSvc *governance.Service,
	client *qubic.Client,
	notify *NotificationService,
	bus *events.Bus,
	log zerolog.Logger,
) *SnapshotService {
	s := &SnapshotService{
		users:       seedUsers,
		dailyVolume: seedDailyVolume,
		revenue:     seedRevenue,
		oracle:      oracleSvc,
		ledger:      ledgerSvc,
		rebalance:   rebalanceSvc,
		compound:    compoundSvc,
		gov:         govSvc,
		client:      client,
		notify:      notify,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         log.With().Str("service", "snapshot").Logger(),
	}
	s.volume24h = 50_000 + s.rng.Float64()*100_000

	_ = bus.Subscribe(events.SharesMinted, s.onActivity)
	_ = bus.Subscribe(events.SharesBurned, s.onActivity)
	_ = bus.Subscribe(events.Rebalanced, s.onActivity)
	_ = bus.Subscribe(events.Compounded, s.onActivity)

	return s
}

// AttachVault lets the snapshot report the vault's auto-rebalance flag.
// Set once during wiring; the vault also depends on the notification
// service, so the back-reference cannot be a constructor argument.
func (s *SnapshotService) AttachVault(vault *VaultService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vault = vault
}

func (s *SnapshotService) onActivity(event *events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case events.SharesMinted:
		if data, ok := event.GetTypedData().(*events.SharesMintedData); ok {
			s.dailyVolume += data.QXAmount
			s.volume24h += data.QXAmount
		}
		s.users += s.rng.Intn(3)
	case events.SharesBurned:
		if data, ok := event.GetTypedData().(*events.SharesBurnedData); ok {
			s.dailyVolume += data.QXReturned
			s.volume24h += data.QXReturned
		}
	}

	s.revenue += s.tvlLocked() * revenueFeeRate / daysPerYear
}

func (s *SnapshotService) tvlLocked() float64 {
	return seedTVL + s.ledger.TVL()
}

// Metrics returns the current protocol metrics
func (s *SnapshotService) Metrics() ProtocolMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ProtocolMetrics{
		TVL:            s.tvlLocked(),
		TotalUsers:     s.users,
		DailyVolume:    s.dailyVolume,
		Revenue:        s.revenue,
		AverageAPY:     s.oracle.CurrentAPY(),
		RebalanceCount: s.rebalance.Count(),
		LastRebalance:  s.rebalance.LastRebalance(),
		NextCompoundAt: s.compound.NextCompoundAt(),
	}
}

// IPO returns the current share-offering stats
func (s *SnapshotService) IPO() IPOStats {
	s.mu.Lock()
	volume := s.volume24h
	s.mu.Unlock()

	totalShares := seedTotalShares + s.ledger.TotalSupply()
	sharePrice := s.ledger.ShareValue()

	return IPOStats{
		TotalShares:       totalShares,
		CirculatingSupply: totalShares * circulatingRatio,
		SharePrice:        sharePrice,
		MarketCap:         totalShares * sharePrice,
		Volume24h:         volume,
		Holders:           seedUsers + s.ledger.HolderCount(),
	}
}

// State builds the full aggregated snapshot. The portfolio section is
// filled only when a wallet is connected.
func (s *SnapshotService) State() Snapshot {
	snap := Snapshot{
		Assets:       s.oracle.Assets(),
		CurrentAPY:   s.oracle.CurrentAPY(),
		TVL:          s.ledger.TVL(),
		ShareValue:   s.ledger.ShareValue(),
		Metrics:      s.Metrics(),
		IPO:          s.IPO(),
		Rebalances:   s.rebalance.History(),
		Compounds:    s.compound.History(),
		Proposals:    s.gov.Proposals(),
		Transactions: s.client.Transactions(),
		Notification: s.notify.Current(),
	}

	if wallet := s.client.Wallet(); wallet != nil {
		snap.Wallet = wallet
		portfolio := s.ledger.SnapshotFor(wallet.Address)
		snap.Portfolio = &portfolio
	}

	s.mu.Lock()
	if s.vault != nil {
		snap.AutoRebalance = s.vault.AutoRebalance()
	}
	s.mu.Unlock()

	return snap
}
