// Package server owns the HTTP surface: routing, middleware, the command
// endpoints, and the SSE event stream.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/config"
	"github.com/aristath/yieldforge/internal/events"
	"github.com/aristath/yieldforge/internal/modules/compounding"
	"github.com/aristath/yieldforge/internal/modules/governance"
	"github.com/aristath/yieldforge/internal/modules/ledger"
	"github.com/aristath/yieldforge/internal/modules/oracle"
	"github.com/aristath/yieldforge/internal/modules/rebalancing"
	"github.com/aristath/yieldforge/internal/modules/transactions"
	"github.com/aristath/yieldforge/internal/services"
)

// Handlers bundles the per-module HTTP handlers mounted by the server
type Handlers struct {
	Oracle       *oracle.Handler
	OracleStream *oracle.StreamHandler
	Ledger       *ledger.Handler
	Rebalancing  *rebalancing.Handler
	Compounding  *compounding.Handler
	Governance   *governance.Handler
}

// Config holds server configuration
type Config struct {
	Port     int
	DevMode  bool
	Log      zerolog.Logger
	Cfg      *config.Config
	Vault    *services.VaultService
	Snapshot *services.SnapshotService
	Notify   *services.NotificationService
	TxRepo   *transactions.Repository
	Bus      *events.Bus
	Handlers Handlers
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	vault    *services.VaultService
	snapshot *services.SnapshotService
	notify   *services.NotificationService
	txRepo   *transactions.Repository
	bus      *events.Bus
	handlers Handlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		vault:    cfg.Vault,
		snapshot: cfg.Snapshot,
		notify:   cfg.Notify,
		txRepo:   cfg.TxRepo,
		bus:      cfg.Bus,
		handlers: cfg.Handlers,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streaming endpoints manage their own deadlines
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Aggregated application state
		r.Get("/state", s.handleGetState)
		r.Get("/metrics", s.handleGetMetrics)
		r.Get("/ipo", s.handleGetIPO)
		r.Get("/notifications", s.handleGetNotification)

		// Oracle feed
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", s.handlers.Oracle.HandleGetAssets)
			r.Get("/{symbol}/stats", s.handlers.Oracle.HandleGetStats)
		})
		r.Get("/oracle/stream", s.handlers.OracleStream.ServeHTTP)

		// Ledger
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/supply", s.handlers.Ledger.HandleGetSupply)
			r.Get("/{owner}", s.handlers.Ledger.HandleGetSnapshot)
		})

		// Histories
		r.Route("/history", func(r chi.Router) {
			r.Get("/rebalances", s.handlers.Rebalancing.HandleGetHistory)
			r.Get("/compounds", s.handlers.Compounding.HandleGetHistory)
			r.Get("/transactions", s.handleGetTransactions)
		})
		r.Get("/compounding/status", s.handlers.Compounding.HandleGetStatus)

		// Governance
		r.Route("/governance", func(r chi.Router) {
			r.Get("/proposals", s.handlers.Governance.HandleGetProposals)
			r.Get("/proposals/{id}", s.handlers.Governance.HandleGetProposal)
			r.Post("/proposals/{id}/vote", s.handlers.Governance.HandleVote)
		})

		// Wallet commands
		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", s.handleGetWallet)
			r.Post("/connect", s.handleConnectWallet)
			r.Post("/disconnect", s.handleDisconnectWallet)
			r.Post("/faucet", s.handleFaucet)
		})

		// Vault commands
		r.Route("/vault", func(r chi.Router) {
			r.Post("/deposit", s.handleDeposit)
			r.Post("/withdraw", s.handleWithdraw)
			r.Post("/vote", s.handleVote)
			r.Post("/rebalance", s.handleRebalance)
			r.Post("/compound", s.handleCompound)
			r.Post("/auto-rebalance", s.handleSetAutoRebalance)
		})

		// System
		r.Get("/system/status", s.handleSystemStatus)

		// Event stream (SSE)
		r.Get("/events", s.handleEventStream)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}
