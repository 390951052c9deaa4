package usecases

import (
	"hive-economy.backend/internal/domain/entities"
)

// Fee schedule in basis points per entry type. The fee is deducted from the
// receiver's credit; the sender always moves exactly the face amount. Gifts
// and system-originated credits (payouts, rewards, tournament wins) carry no
// fee.
const (
	feeBpsPurchase        = 1000
	feeBpsTournamentEntry = 500
	feeBpsBond            = 200

	// Combined GST + QST remitted out of the platform fee, expressed over
	// 100000 so the 14.975% rate stays in integer math. The tax is carved
	// out of the fee for remittance reporting and never touches either
	// participant's balance.
	taxRateNum   = 14975
	taxRateDenom = 100000

	bpsDenom = 10000

	// Share of each platform fee forwarded to the jackpot pool, in
	// basis points.
	jackpotShareBps = 500
)

// feeBps returns the platform fee rate for an entry type
func feeBps(entryType entities.EntryType) int64 {
	switch entryType {
	case entities.EntryTypePurchase:
		return feeBpsPurchase
	case entities.EntryTypeTournamentEntry:
		return feeBpsTournamentEntry
	case entities.EntryTypeBond:
		return feeBpsBond
	default:
		return 0
	}
}

// ComputeFees returns the deterministic fee and tax for an amount and entry
// type. The tax is the GST+QST portion inside the fee, not an extra charge.
// All divisions floor, so the same inputs always produce the same breakdown
// and totals never drift by rounding.
func ComputeFees(amount int64, entryType entities.EntryType) entities.FeeBreakdown {
	fee := amount * feeBps(entryType) / bpsDenom
	tax := fee * taxRateNum / taxRateDenom
	return entities.FeeBreakdown{FeeAmount: fee, TaxAmount: tax}
}

// JackpotShare returns the slice of a platform fee that feeds the jackpot
// pool
func JackpotShare(fee int64) int64 {
	return fee * jackpotShareBps / bpsDenom
}
