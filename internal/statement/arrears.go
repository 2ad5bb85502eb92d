package statement

// ExtractArrears scans obligations and keeps only those still owing money.
// Fully paid and overpaid items are excluded; input order is preserved so
// output stays deterministic. The summary sums over the emitted items.
func ExtractArrears(obligations []Obligation) ([]ArrearsItem, ArrearsSummary) {
	items := make([]ArrearsItem, 0)
	var summary ArrearsSummary
	for _, ob := range obligations {
		balance := ob.Expected - ob.Paid
		if balance <= 0 {
			continue
		}
		status := StatusUnpaid
		if ob.Paid > 0 {
			status = StatusPartiallyPaid
		}
		items = append(items, ArrearsItem{
			Obligation: ob,
			Balance:    balance,
			Status:     status,
		})
		summary.TotalExpected += ob.Expected
		summary.TotalPaid += ob.Paid
	}
	summary.TotalArrears = summary.TotalExpected - summary.TotalPaid
	summary.ItemCount = len(items)
	return items, summary
}
