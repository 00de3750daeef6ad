package cmd

import (
	"fmt"

	"github.com/robynasuro/octra-client/cache"
	"github.com/robynasuro/octra-client/client"
	"github.com/robynasuro/octra-client/config"
	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/exception"
	"github.com/robynasuro/octra-client/monitoring"
	"github.com/robynasuro/octra-client/service"
)

// app wires the client stack for one CLI invocation.
type app struct {
	cfg      *config.ClientConfig
	wallet   domain.Wallet
	rpc      *client.OctraClient
	states   *cache.StateCache
	pending  *cache.PendingCache
	tx       *service.TxService
	history  *service.HistoryService
	accounts *service.AccountService
}

func newApp(needWallet bool) (*app, error) {
	cfg, err := config.LoadClientConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyTuningOverrides(cfg, tuningPath); err != nil {
		return nil, fmt.Errorf("failed to apply tuning overrides: %w", err)
	}
	if rpcURL != "" {
		cfg.RPC.URL = rpcURL
	}
	if keyFile != "" {
		cfg.Wallet.KeyFile = keyFile
	}

	a := &app{cfg: cfg}

	if needWallet {
		a.wallet, err = loadWallet(cfg.Wallet.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load wallet: %w", err)
		}
	}

	a.rpc = client.NewClient(client.Config{BaseURL: cfg.RPC.URL})
	a.states = cache.NewStateCache(a.rpc.GetConfirmedState, cfg.Tuning.StateTTL)
	a.pending = cache.NewPendingCache(a.rpc.GetPendingPool, cfg.Tuning.PendingTTL)
	a.tx = service.NewTxService(a.rpc, a.states, a.pending, cfg.Tuning)
	a.history = service.NewHistoryService(a.rpc, a.pending, cfg.Tuning.HistoryLimit)
	a.accounts = service.NewAccountService(a.states, a.pending)

	if cfg.Metrics.Enabled {
		exception.SafeGo("metrics-listener", func() {
			monitoring.Serve(cfg.Metrics.ListenAddr)
		})
	}
	return a, nil
}
