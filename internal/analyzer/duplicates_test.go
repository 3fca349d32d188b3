package analyzer

import "testing"

func TestDetectDuplicateVendors(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "Acme Corp", Category: "Office", Amount: 100},
		{Vendor: "Globex", Category: "Office", Amount: 50},
		{Vendor: "ACME Corporation", Category: "Office", Amount: 200},
		{Vendor: "Acme Co.", Category: "Office", Amount: 300},
	}

	insights := a.DetectDuplicateVendors(records)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}

	ins := insights[0]
	if ins.Type != TypeDuplicateVendors {
		t.Errorf("expected type %s, got %s", TypeDuplicateVendors, ins.Type)
	}
	if ins.Title != "Duplicate Vendor: Acme Corp" {
		t.Errorf("unexpected title %q", ins.Title)
	}
	if !approxEqual(ins.TotalSpend, 600) {
		t.Errorf("expected total spend 600, got %f", ins.TotalSpend)
	}
	if ins.Savings == nil || !approxEqual(*ins.Savings, 48) {
		t.Errorf("expected savings 48, got %v", ins.Savings)
	}
	if ins.RiskAmount != nil {
		t.Errorf("expected no risk amount on a savings insight")
	}
	if len(ins.VendorNames) != 3 {
		t.Errorf("expected 3 name variations, got %v", ins.VendorNames)
	}
	if ins.Records != 3 {
		t.Errorf("expected 3 records, got %d", ins.Records)
	}
	if ins.Priority != PriorityMedium {
		t.Errorf("expected MEDIUM priority, got %s", ins.Priority)
	}
	if ins.Confidence < 0.5 || ins.Confidence > 0.95 {
		t.Errorf("confidence %f outside [0.5, 0.95]", ins.Confidence)
	}
	if len(ins.Evidence) == 0 {
		t.Error("expected evidence lines")
	}
}

func TestDetectDuplicateVendors_HighPriority(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "Initech", Amount: 100000},
		{Vendor: "Initech LLC", Amount: 50000},
	}

	insights := a.DetectDuplicateVendors(records)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if insights[0].Priority != PriorityHigh {
		t.Errorf("expected HIGH priority for savings 12000, got %s", insights[0].Priority)
	}
}

func TestDetectDuplicateVendors_NoDuplicates(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name    string
		records []Record
	}{
		{"empty", nil},
		{"unrelated vendors", []Record{{Vendor: "Acme", Amount: 10}, {Vendor: "Globex", Amount: 20}}},
		{"same spelling repeated", []Record{{Vendor: "Acme Corp", Amount: 10}, {Vendor: "Acme Corp", Amount: 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.DetectDuplicateVendors(tt.records); len(got) != 0 {
				t.Errorf("expected no insights, got %d", len(got))
			}
		})
	}
}
