package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
)

// SampleRecords returns the bundled demo dataset.
func SampleRecords() []analyzer.Record {
	return []analyzer.Record{
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

// WriteCSV writes records with a header row using the canonical field names.
func WriteCSV(w io.Writer, records []analyzer.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Fields()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Vendor,
			r.Category,
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			r.Date,
			r.PONumber,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []analyzer.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
