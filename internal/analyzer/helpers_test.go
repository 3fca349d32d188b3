package analyzer

import (
	"math"
	"testing"
	"time"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a := NewDefault()
	fixed := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }
	return a
}

// sampleBatch mirrors the bundled demo dataset.
func sampleBatch() []Record {
	return []Record{
		{Vendor: "Acme Corp", Category: "Office Supplies", Amount: 15420, Date: "2024-12-15", PONumber: "PO-2024-1001"},
		{Vendor: "ACME Corporation", Category: "Office Supplies", Amount: 18900, Date: "2024-11-28", PONumber: "PO-2024-0987"},
		{Vendor: "Acme Corp.", Category: "Office Supplies", Amount: 22100, Date: "2024-10-20", PONumber: "PO-2024-0856"},
		{Vendor: "Global Tech Solutions", Category: "IT Equipment", Amount: 89750, Date: "2024-12-10", PONumber: "PO-2024-1002"},
		{Vendor: "Global Tech Solutions", Category: "IT Equipment", Amount: 125000, Date: "2024-11-15", PONumber: "PO-2024-0923"},
		{Vendor: "TechMart Express", Category: "IT Equipment", Amount: 45000, Date: "2024-12-05", PONumber: "PO-2024-0999"},
		{Vendor: "Premium Office Co", Category: "Office Supplies", Amount: 12300, Date: "2024-12-01", PONumber: "PO-2024-0995"},
		{Vendor: "Office Depot Pro", Category: "Office Supplies", Amount: 8750, Date: "2024-12-02", PONumber: "PO-2024-0996"},
		{Vendor: "Industrial Supplies Inc", Category: "Manufacturing", Amount: 45600, Date: "2024-12-08", PONumber: "PO-2024-0998"},
		{Vendor: "Industrial Supplies Inc", Category: "Manufacturing", Amount: 67800, Date: "2024-11-22", PONumber: "PO-2024-0945"},
		{Vendor: "Quick Print Services", Category: "Marketing", Amount: 8750, Date: "2024-12-12", PONumber: "PO-2024-1005"},
		{Vendor: "Logistics Partners LLC", Category: "Shipping", Amount: 23400, Date: "2024-12-01", PONumber: "PO-2024-0994"},
	}
}
