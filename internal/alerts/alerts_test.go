package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/commentary"
	"github.com/blackwell-systems/spendscope/internal/store"
)

type fakeExtractor struct {
	contracts []commentary.Contract
	err       error
	calls     int
}

func (f *fakeExtractor) ExtractContracts(ctx context.Context, records []analyzer.Record) ([]commentary.Contract, error) {
	f.calls++
	return f.contracts, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func contract(vendor, renewal string) commentary.Contract {
	return commentary.Contract{
		Vendor:       vendor,
		ContractType: "annual_contract",
		RenewalDate:  renewal,
		AnnualValue:  24000,
		Confidence:   0.8,
		Evidence:     "recurring monthly PO",
	}
}

func newManager(t *testing.T, ex *fakeExtractor, clock *time.Time) (*alerts.Manager, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	m := alerts.NewManager(s, ex, alerts.WithClock(func() time.Time { return *clock }))
	return m, s
}

func TestDetect_WindowAndPriority(t *testing.T) {
	ex := &fakeExtractor{contracts: []commentary.Contract{
		contract("Soon", "2025-01-20"),     // 19 days
		contract("Mid", "2025-02-20"),      // 50 days
		contract("Later", "2025-04-15"),    // 104 days
		contract("TooFar", "2025-06-01"),   // beyond 120 days
		contract("Past", "2024-12-01"),     // already passed
		contract("Garbled", "next spring"), // unparseable
	}}
	now := testNow
	m, _ := newManager(t, ex, &now)

	det, err := m.Detect(context.Background(), []analyzer.Record{{Vendor: "Soon", Amount: 2000}})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(det.Contracts) != 6 {
		t.Errorf("expected all 6 contracts reported, got %d", len(det.Contracts))
	}
	if len(det.Created) != 3 {
		t.Fatalf("expected 3 alerts created, got %d", len(det.Created))
	}

	want := map[string]struct {
		days     int
		priority analyzer.Priority
	}{
		"Soon":  {19, analyzer.PriorityHigh},
		"Mid":   {50, analyzer.PriorityMedium},
		"Later": {104, analyzer.PriorityLow},
	}
	for _, a := range det.Created {
		w, ok := want[a.Vendor]
		if !ok {
			t.Errorf("unexpected alert for %s", a.Vendor)
			continue
		}
		if a.DaysUntilRenewal != w.days || a.Priority != w.priority {
			t.Errorf("%s: got %d days %s, want %d days %s", a.Vendor, a.DaysUntilRenewal, a.Priority, w.days, w.priority)
		}
		if a.ID == "" || a.Status != alerts.StatusActive {
			t.Errorf("%s: expected id and active status, got %+v", a.Vendor, a)
		}
	}

	active, err := m.Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active alerts, got %d", len(active))
	}
	if active[0].Vendor != "Soon" || active[2].Vendor != "Later" {
		t.Errorf("expected soonest first, got %s .. %s", active[0].Vendor, active[2].Vendor)
	}
}

func TestDetect_CustomWindow(t *testing.T) {
	ex := &fakeExtractor{contracts: []commentary.Contract{
		contract("Soon", "2025-01-20"),
		contract("Mid", "2025-02-20"),
	}}
	s := newTestStore(t)
	m := alerts.NewManager(s, ex,
		alerts.WithWindowDays(30),
		alerts.WithClock(func() time.Time { return testNow }))

	det, err := m.Detect(context.Background(), nil)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(det.Created) != 1 || det.Created[0].Vendor != "Soon" {
		t.Errorf("expected only the 19-day renewal inside a 30 day window, got %+v", det.Created)
	}
}

func TestDetect_ExtractorFailure(t *testing.T) {
	ex := &fakeExtractor{err: commentary.ErrNotConfigured}
	now := testNow
	m, s := newManager(t, ex, &now)

	if _, err := m.Detect(context.Background(), nil); !errors.Is(err, commentary.ErrNotConfigured) {
		t.Fatalf("expected wrapped extractor error, got %v", err)
	}
	count, err := s.CountAlerts(alerts.StatusActive)
	if err != nil {
		t.Fatalf("CountAlerts failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected nothing stored, got %d alerts", count)
	}
}

func TestActive_RecomputesDays(t *testing.T) {
	ex := &fakeExtractor{contracts: []commentary.Contract{contract("Later", "2025-04-15")}}
	now := testNow
	m, _ := newManager(t, ex, &now)

	if _, err := m.Detect(context.Background(), nil); err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	now = testNow.Add(90 * 24 * time.Hour)
	active, err := m.Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(active))
	}
	if active[0].DaysUntilRenewal != 14 || active[0].Priority != analyzer.PriorityHigh {
		t.Errorf("expected 14 days HIGH after 90 days, got %d %s", active[0].DaysUntilRenewal, active[0].Priority)
	}
}

func TestDismissAndSnooze(t *testing.T) {
	ex := &fakeExtractor{contracts: []commentary.Contract{
		contract("A", "2025-01-20"),
		contract("B", "2025-02-20"),
	}}
	now := testNow
	m, _ := newManager(t, ex, &now)

	det, err := m.Detect(context.Background(), nil)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	ids := map[string]string{}
	for _, a := range det.Created {
		ids[a.Vendor] = a.ID
	}

	if err := m.Dismiss(ids["A"]); err != nil {
		t.Fatalf("Dismiss failed: %v", err)
	}
	if err := m.Snooze(ids["B"], alerts.DefaultSnoozeDays); err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}

	active, err := m.Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no visible alerts, got %+v", active)
	}

	now = testNow.Add(8 * 24 * time.Hour)
	active, err = m.Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(active) != 1 || active[0].Vendor != "B" {
		t.Errorf("expected snoozed alert B to return, got %+v", active)
	}
}

func TestDismissAndSnooze_Errors(t *testing.T) {
	now := testNow
	m, _ := newManager(t, &fakeExtractor{}, &now)

	if err := m.Dismiss("missing"); !errors.Is(err, store.ErrAlertNotFound) {
		t.Errorf("Dismiss: expected ErrAlertNotFound, got %v", err)
	}
	if err := m.Snooze("missing", 3); !errors.Is(err, store.ErrAlertNotFound) {
		t.Errorf("Snooze: expected ErrAlertNotFound, got %v", err)
	}
	if err := m.Snooze("missing", 0); !errors.Is(err, alerts.ErrInvalidSnooze) {
		t.Errorf("Snooze(0): expected ErrInvalidSnooze, got %v", err)
	}
}

func TestCountByPriority(t *testing.T) {
	list := []alerts.Alert{
		{Priority: analyzer.PriorityHigh},
		{Priority: analyzer.PriorityHigh},
		{Priority: analyzer.PriorityLow},
	}
	got := alerts.CountByPriority(list)
	if got != (alerts.Counts{High: 2, Low: 1}) {
		t.Errorf("unexpected counts %+v", got)
	}
}
