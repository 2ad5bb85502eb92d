package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractArrearsFiltersSettled(t *testing.T) {
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	obligations := []Obligation{
		{Kind: ObligationRent, Reference: "2026-07", TenantName: "Acme Ltd", Expected: 63800, Paid: 63800, DueAt: due},
		{Kind: ObligationRent, Reference: "2026-08", TenantName: "Acme Ltd", Expected: 63800, Paid: 20000, DueAt: due},
		{Kind: ObligationBill, Reference: "WATER-0042", TenantName: "Beta Traders", Expected: 4200, Paid: 0, DueAt: due},
		{Kind: ObligationBill, Reference: "POWER-0099", TenantName: "Beta Traders", Expected: 1500, Paid: 2000, DueAt: due},
	}

	items, summary := ExtractArrears(obligations)

	require.Len(t, items, 2)
	require.Equal(t, "2026-08", items[0].Reference)
	require.Equal(t, StatusPartiallyPaid, items[0].Status)
	require.InDelta(t, 43800, items[0].Balance, moneyDelta)
	require.Equal(t, "WATER-0042", items[1].Reference)
	require.Equal(t, StatusUnpaid, items[1].Status)
	require.InDelta(t, 4200, items[1].Balance, moneyDelta)

	// Summary covers only the emitted items, not the settled ones.
	require.Equal(t, 2, summary.ItemCount)
	require.InDelta(t, 68000, summary.TotalExpected, moneyDelta)
	require.InDelta(t, 20000, summary.TotalPaid, moneyDelta)
	require.InDelta(t, 48000, summary.TotalArrears, moneyDelta)
}

func TestExtractArrearsPreservesOrder(t *testing.T) {
	obligations := []Obligation{
		{Kind: ObligationRent, Reference: "2026-06", Expected: 100},
		{Kind: ObligationBill, Reference: "B-1", Expected: 50},
		{Kind: ObligationRent, Reference: "2026-07", Expected: 100},
	}

	items, _ := ExtractArrears(obligations)

	require.Len(t, items, 3)
	require.Equal(t, "2026-06", items[0].Reference)
	require.Equal(t, "B-1", items[1].Reference)
	require.Equal(t, "2026-07", items[2].Reference)
}

func TestExtractArrearsEmpty(t *testing.T) {
	items, summary := ExtractArrears(nil)

	require.Empty(t, items)
	require.Zero(t, summary.ItemCount)
	require.Zero(t, summary.TotalArrears)
}
