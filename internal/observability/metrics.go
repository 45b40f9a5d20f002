package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerMutations counts committed ledger operations by entity and action.
	LedgerMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "duomate", Name: "ledger_mutations_total", Help: "Committed ledger mutations"},
		[]string{"entity", "action"},
	)

	// CoinBalance tracks the DuoCoins balance after the latest ledger commit.
	CoinBalance = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "duomate", Name: "coin_balance", Help: "Current DuoCoins balance"},
	)

	// SyncClients tracks connected change-feed subscribers.
	SyncClients = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "duomate", Name: "sync_clients", Help: "Connected sync websocket clients"},
	)

	// SyncSignals counts change signals fanned out to subscribers.
	SyncSignals = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "duomate", Name: "sync_signals_total", Help: "Change signals broadcast to sync clients"},
	)
)
