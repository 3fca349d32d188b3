// Package alerts turns contract renewals found in procurement data into
// dismissible, snoozable alerts.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/commentary"
)

var (
	// ErrNotFound is returned for an unknown alert id.
	ErrNotFound = errors.New("alert not found")

	// ErrInvalidSnooze is returned for a non-positive snooze length.
	ErrInvalidSnooze = errors.New("snooze days must be positive")
)

const (
	// DefaultWindowDays is how far ahead renewals raise an alert.
	DefaultWindowDays = 120

	// DefaultSnoozeDays is used when a caller does not choose a length.
	DefaultSnoozeDays = 7

	day = 24 * time.Hour
)

// Status is the lifecycle state of an alert.
type Status string

const (
	StatusActive    Status = "active"
	StatusDismissed Status = "dismissed"
)

// Alert is one upcoming contract renewal.
type Alert struct {
	ID               string            `json:"id"`
	Vendor           string            `json:"vendor"`
	ContractType     string            `json:"contractType"`
	RenewalDate      string            `json:"renewalDate"`
	DaysUntilRenewal int               `json:"daysUntilRenewal"`
	AnnualValue      float64           `json:"annualValue"`
	Priority         analyzer.Priority `json:"priority"`
	Status           Status            `json:"status"`
	Confidence       float64           `json:"confidence"`
	Evidence         string            `json:"evidence"`
	CreatedAt        time.Time         `json:"createdAt"`
	DismissedAt      *time.Time        `json:"dismissedAt,omitempty"`
	SnoozedUntil     *time.Time        `json:"snoozedUntil,omitempty"`
}

// Store persists alerts. DismissAlert and SnoozeAlert return an error
// wrapping ErrNotFound for unknown ids.
type Store interface {
	InsertAlerts(alerts []Alert) error
	ListAlerts(status Status) ([]Alert, error)
	DismissAlert(id string, at time.Time) error
	SnoozeAlert(id string, until time.Time) error
}

// Extractor finds contract terms in a batch of records.
type Extractor interface {
	ExtractContracts(ctx context.Context, records []analyzer.Record) ([]commentary.Contract, error)
}

// Manager creates and serves renewal alerts.
type Manager struct {
	store     Store
	extractor Extractor
	window    time.Duration
	now       func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithWindowDays sets how far ahead a renewal must fall to raise an alert.
func WithWindowDays(days int) Option {
	return func(m *Manager) {
		if days > 0 {
			m.window = time.Duration(days) * day
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager.
func NewManager(store Store, extractor Extractor, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		extractor: extractor,
		window:    DefaultWindowDays * day,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// daysUntil is the whole number of days, rounded up, from now to t.
func daysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// priorityFor buckets days until renewal: within 30 days HIGH, within 60
// MEDIUM, otherwise LOW.
func priorityFor(days int) analyzer.Priority {
	switch {
	case days <= 30:
		return analyzer.PriorityHigh
	case days <= 60:
		return analyzer.PriorityMedium
	}
	return analyzer.PriorityLow
}

// Detection is the outcome of scanning a batch for contracts.
type Detection struct {
	Contracts []commentary.Contract `json:"contracts"`
	Created   []Alert               `json:"created"`
}

// Detect extracts contracts from records and stores an alert for every
// renewal falling after now and within the window. Extraction failures
// return the error and store nothing.
func (m *Manager) Detect(ctx context.Context, records []analyzer.Record) (*Detection, error) {
	contracts, err := m.extractor.ExtractContracts(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("contract extraction failed: %w", err)
	}

	now := m.now()
	horizon := now.Add(m.window)

	created := make([]Alert, 0)
	for _, c := range contracts {
		renewal, ok := analyzer.ParseDate(c.RenewalDate)
		if !ok {
			continue
		}
		if !renewal.After(now) || renewal.After(horizon) {
			continue
		}

		days := daysUntil(renewal, now)
		created = append(created, Alert{
			ID:               uuid.NewString(),
			Vendor:           c.Vendor,
			ContractType:     c.ContractType,
			RenewalDate:      c.RenewalDate,
			DaysUntilRenewal: days,
			AnnualValue:      c.AnnualValue,
			Priority:         priorityFor(days),
			Status:           StatusActive,
			Confidence:       c.Confidence,
			Evidence:         c.Evidence,
			CreatedAt:        now.UTC(),
		})
	}

	if len(created) > 0 {
		if err := m.store.InsertAlerts(created); err != nil {
			return nil, fmt.Errorf("failed to store alerts: %w", err)
		}
	}

	if contracts == nil {
		contracts = []commentary.Contract{}
	}
	return &Detection{Contracts: contracts, Created: created}, nil
}

// Active returns active alerts that are not snoozed, soonest renewal first.
// Days and priority are recomputed against the current time.
func (m *Manager) Active() ([]Alert, error) {
	all, err := m.store.ListAlerts(StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	now := m.now()
	active := make([]Alert, 0, len(all))
	for _, a := range all {
		if a.SnoozedUntil != nil && a.SnoozedUntil.After(now) {
			continue
		}
		if renewal, ok := analyzer.ParseDate(a.RenewalDate); ok {
			a.DaysUntilRenewal = daysUntil(renewal, now)
			a.Priority = priorityFor(a.DaysUntilRenewal)
		}
		active = append(active, a)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DaysUntilRenewal < active[j].DaysUntilRenewal
	})
	return active, nil
}

// Dismiss marks an alert dismissed.
func (m *Manager) Dismiss(id string) error {
	if err := m.store.DismissAlert(id, m.now().UTC()); err != nil {
		return fmt.Errorf("failed to dismiss alert %s: %w", id, err)
	}
	return nil
}

// Snooze hides an alert from Active for days days.
func (m *Manager) Snooze(id string, days int) error {
	if days <= 0 {
		return ErrInvalidSnooze
	}
	until := m.now().Add(time.Duration(days) * day).UTC()
	if err := m.store.SnoozeAlert(id, until); err != nil {
		return fmt.Errorf("failed to snooze alert %s: %w", id, err)
	}
	return nil
}

// Counts tallies alerts by priority.
type Counts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// CountByPriority tallies alerts by priority.
func CountByPriority(alerts []Alert) Counts {
	var c Counts
	for _, a := range alerts {
		switch a.Priority {
		case analyzer.PriorityHigh:
			c.High++
		case analyzer.PriorityMedium:
			c.Medium++
		case analyzer.PriorityLow:
			c.Low++
		}
	}
	return c
}
