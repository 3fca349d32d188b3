package analyzer

import "testing"

func TestDetectOffContractSpend(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "A", Amount: 800},
		{Vendor: "B", Amount: 150},
		{Vendor: "C", Amount: 50},
	}

	insights := a.DetectOffContractSpend(records)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}

	ins := insights[0]
	if !approxEqual(ins.OffContractSpend, 200) {
		t.Errorf("expected off-contract spend 200, got %f", ins.OffContractSpend)
	}
	if ins.RiskAmount == nil || !approxEqual(*ins.RiskAmount, 24) {
		t.Errorf("expected risk amount 24, got %v", ins.RiskAmount)
	}
	if ins.Savings != nil {
		t.Error("expected no savings on a risk insight")
	}
	if ins.TransactionCount != 2 {
		t.Errorf("expected 2 off-contract transactions, got %d", ins.TransactionCount)
	}
	if len(ins.AffectedVendors) != 2 || ins.AffectedVendors[0] != "B" || ins.AffectedVendors[1] != "C" {
		t.Errorf("unexpected affected vendors %v", ins.AffectedVendors)
	}
	if ins.Priority != PriorityMedium {
		t.Errorf("expected MEDIUM priority, got %s", ins.Priority)
	}
}

func TestDetectOffContractSpend_SingleVendor(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "Solo", Amount: 400},
		{Vendor: "Solo", Amount: 600},
	}
	if got := a.DetectOffContractSpend(records); len(got) != 0 {
		t.Errorf("expected no insight when one vendor holds all spend, got %d", len(got))
	}
	if got := a.DetectOffContractSpend(nil); len(got) != 0 {
		t.Errorf("expected no insight for empty input, got %d", len(got))
	}
}

func TestDetectVolumeOpportunities(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "Mid", Amount: 30000},
		{Vendor: "Mid", Amount: 30000},
		{Vendor: "Big", Amount: 200000},
		{Vendor: "Edge", Amount: 50000},
	}

	insights := a.DetectVolumeOpportunities(records)
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(insights))
	}

	mid, big := insights[0], insights[1]
	if mid.Vendor != "Mid" || big.Vendor != "Big" {
		t.Fatalf("expected first-seen vendor order, got %s then %s", mid.Vendor, big.Vendor)
	}
	if !approxEqual(mid.SavingsValue(), 3000) || mid.Priority != PriorityMedium {
		t.Errorf("Mid: expected savings 3000 MEDIUM, got %f %s", mid.SavingsValue(), mid.Priority)
	}
	if mid.TransactionCount != 2 {
		t.Errorf("Mid: expected 2 transactions, got %d", mid.TransactionCount)
	}
	if !approxEqual(big.SavingsValue(), 10000) || big.Priority != PriorityHigh {
		t.Errorf("Big: expected savings 10000 HIGH, got %f %s", big.SavingsValue(), big.Priority)
	}
}

func TestDetectTailSpend(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "Anchor", Amount: 10000},
		{Vendor: "T1", Amount: 50},
		{Vendor: "T1", Amount: 50},
		{Vendor: "T1", Amount: 50},
		// exactly two transactions is not enough
		{Vendor: "T2", Amount: 50},
		{Vendor: "T2", Amount: 50},
	}

	insights := a.DetectTailSpend(records)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}

	ins := insights[0]
	if ins.TailVendorCount != 1 || len(ins.TailVendors) != 1 || ins.TailVendors[0] != "T1" {
		t.Errorf("expected only T1 in tail, got %v", ins.TailVendors)
	}
	if !approxEqual(ins.TailSpend, 150) {
		t.Errorf("expected tail spend 150, got %f", ins.TailSpend)
	}
	if !approxEqual(ins.SavingsValue(), 18) {
		t.Errorf("expected savings 18, got %f", ins.SavingsValue())
	}
	if ins.Priority != PriorityLow {
		t.Errorf("expected LOW priority, got %s", ins.Priority)
	}
}

func TestDetectTailSpend_None(t *testing.T) {
	a := newTestAnalyzer(t)
	records := []Record{
		{Vendor: "A", Amount: 500},
		{Vendor: "B", Amount: 500},
	}
	if got := a.DetectTailSpend(records); len(got) != 0 {
		t.Errorf("expected no tail insight, got %d", len(got))
	}
}
