package usecases

import (
	"testing"

	"github.com/stretchr/testify/require"
	"hive-economy.backend/internal/domain/entities"
)

func TestComputeFeesSchedule(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		entryType entities.EntryType
		wantFee   int64
		wantTax   int64
	}{
		{"purchase 10%", 500, entities.EntryTypePurchase, 50, 7},
		{"purchase larger", 2000, entities.EntryTypePurchase, 200, 29},
		{"gift free", 500, entities.EntryTypeGift, 0, 0},
		{"tournament entry 5%", 2000, entities.EntryTypeTournamentEntry, 100, 14},
		{"bond 2%", 10000, entities.EntryTypeBond, 200, 29},
		{"payout free", 5000, entities.EntryTypePayout, 0, 0},
		{"reward free", 5000, entities.EntryTypeReward, 0, 0},
		{"tournament win free", 5000, entities.EntryTypeTournamentWin, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFees(tt.amount, tt.entryType)
			require.Equal(t, tt.wantFee, got.FeeAmount)
			require.Equal(t, tt.wantTax, got.TaxAmount)
		})
	}
}

func TestComputeFeesFloors(t *testing.T) {
	// Tiny amounts floor to zero fee and zero tax, never round up.
	got := ComputeFees(1, entities.EntryTypePurchase)
	require.Zero(t, got.FeeAmount)
	require.Zero(t, got.TaxAmount)

	// 9 * 1000 / 10000 = 0.9 floors to 0.
	got = ComputeFees(9, entities.EntryTypePurchase)
	require.Zero(t, got.FeeAmount)

	// 19 * 1000 / 10000 = 1.9 floors to 1; 1 * 14975 / 100000 floors to 0.
	got = ComputeFees(19, entities.EntryTypePurchase)
	require.Equal(t, int64(1), got.FeeAmount)
	require.Zero(t, got.TaxAmount)
}

func TestComputeFeesDeterministic(t *testing.T) {
	first := ComputeFees(123456, entities.EntryTypePurchase)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeFees(123456, entities.EntryTypePurchase))
	}
}

func TestJackpotShare(t *testing.T) {
	require.Equal(t, int64(2), JackpotShare(50))
	require.Equal(t, int64(5), JackpotShare(100))
	require.Equal(t, int64(500), JackpotShare(10000))

	// Below one full unit the share floors to zero.
	require.Zero(t, JackpotShare(19))
	require.Zero(t, JackpotShare(0))
}
