package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersTotal counts completed ledger transfers by entry type
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_transfers_total",
		Help: "Completed ledger transfers",
	}, []string{"type"})

	// TransferFailuresTotal counts rejected transfers by reason
	TransferFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_transfer_failures_total",
		Help: "Rejected ledger transfers",
	}, []string{"reason"})

	// FeesCollectedTotal accumulates platform fees in credits
	FeesCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_fees_collected_total",
		Help: "Platform fees collected, in credits",
	})

	// JackpotContributionsTotal accumulates jackpot contributions in credits
	JackpotContributionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_jackpot_contributions_total",
		Help: "Jackpot contributions, in credits",
	})

	// JackpotDrawsTotal counts completed jackpot draws
	JackpotDrawsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_jackpot_draws_total",
		Help: "Completed jackpot draws",
	})

	// TradesTotal counts completed marketplace purchases
	TradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_trades_total",
		Help: "Completed marketplace trades",
	})

	// WalletsCreatedTotal counts custodial wallets created
	WalletsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_wallets_created_total",
		Help: "Custodial wallets created",
	})
)
