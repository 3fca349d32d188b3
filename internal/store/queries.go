package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

// Trend snapshot operations

// SaveSnapshot replaces the snapshot for the same period and prunes all but
// the newest keep periods, in one transaction.
func (s *Store) SaveSnapshot(snap *trends.Snapshot, keep int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO trend_snapshots
		(period, id, date, month, month_number, year,
		 potential_savings, insights_found, non_compliant_spend, duplicate_vendors,
		 contract_alerts, categories_analyzed, avg_savings_per_insight, processing_time,
		 records_processed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	m := snap.Metrics
	_, err = tx.Exec(query,
		snap.Period(),
		snap.ID,
		snap.Date,
		snap.Month,
		snap.MonthNumber,
		snap.Year,
		m.PotentialSavings,
		m.InsightsFound,
		m.NonCompliantSpend,
		m.DuplicateVendors,
		m.ContractAlerts,
		m.CategoriesAnalyzed,
		m.AvgSavingsPerInsight,
		m.ProcessingTime,
		snap.RecordsProcessed,
		snap.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to save snapshot %s", snap.Period()), err)
	}

	if keep > 0 {
		prune := `
			DELETE FROM trend_snapshots
			WHERE period NOT IN (
				SELECT period FROM trend_snapshots ORDER BY period DESC LIMIT ?
			)
		`
		if _, err := tx.Exec(prune, keep); err != nil {
			return wrapErr("failed to prune snapshots", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the newest limit snapshots, oldest first.
func (s *Store) ListSnapshots(limit int) ([]trends.Snapshot, error) {
	query := `
		SELECT id, date, month, month_number, year,
		       potential_savings, insights_found, non_compliant_spend, duplicate_vendors,
		       contract_alerts, categories_analyzed, avg_savings_per_insight, processing_time,
		       records_processed, created_at
		FROM (
			SELECT * FROM trend_snapshots ORDER BY period DESC LIMIT ?
		)
		ORDER BY period ASC
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, wrapErr("failed to list snapshots", err)
	}
	defer rows.Close()

	var snaps []trends.Snapshot
	for rows.Next() {
		var snap trends.Snapshot
		var createdAt string
		m := &snap.Metrics

		err := rows.Scan(
			&snap.ID,
			&snap.Date,
			&snap.Month,
			&snap.MonthNumber,
			&snap.Year,
			&m.PotentialSavings,
			&m.InsightsFound,
			&m.NonCompliantSpend,
			&m.DuplicateVendors,
			&m.ContractAlerts,
			&m.CategoriesAnalyzed,
			&m.AvgSavingsPerInsight,
			&m.ProcessingTime,
			&snap.RecordsProcessed,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snap.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", snap.ID, err)
		}

		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snaps, nil
}

// Contract alert operations

// InsertAlerts stores new alerts in one transaction.
func (s *Store) InsertAlerts(list []alerts.Alert) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO contract_alerts
		(id, vendor, contract_type, renewal_date, days_until_renewal, annual_value,
		 priority, status, confidence, evidence, created_at, dismissed_at, snoozed_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, a := range list {
		_, err := tx.Exec(query,
			a.ID,
			a.Vendor,
			a.ContractType,
			a.RenewalDate,
			a.DaysUntilRenewal,
			a.AnnualValue,
			string(a.Priority),
			string(a.Status),
			a.Confidence,
			a.Evidence,
			a.CreatedAt.Format(time.RFC3339),
			formatNullTime(a.DismissedAt),
			formatNullTime(a.SnoozedUntil),
		)
		if err != nil {
			return wrapErr(fmt.Sprintf("failed to insert alert %s", a.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alerts: %w", err)
	}
	return nil
}

// ListAlerts returns alerts with the given status, soonest renewal first.
func (s *Store) ListAlerts(status alerts.Status) ([]alerts.Alert, error) {
	query := `
		SELECT id, vendor, contract_type, renewal_date, days_until_renewal, annual_value,
		       priority, status, confidence, evidence, created_at, dismissed_at, snoozed_until
		FROM contract_alerts
		WHERE status = ?
		ORDER BY renewal_date ASC, created_at ASC
	`

	rows, err := s.db.Query(query, string(status))
	if err != nil {
		return nil, wrapErr("failed to list alerts", err)
	}
	defer rows.Close()

	var list []alerts.Alert
	for rows.Next() {
		var a alerts.Alert
		var priority, st, createdAt string
		var dismissedAt, snoozedUntil sql.NullString

		err := rows.Scan(
			&a.ID,
			&a.Vendor,
			&a.ContractType,
			&a.RenewalDate,
			&a.DaysUntilRenewal,
			&a.AnnualValue,
			&priority,
			&st,
			&a.Confidence,
			&a.Evidence,
			&createdAt,
			&dismissedAt,
			&snoozedUntil,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		a.Priority = analyzer.Priority(priority)
		a.Status = alerts.Status(st)

		a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", a.ID, err)
		}
		if a.DismissedAt, err = parseNullTime(dismissedAt); err != nil {
			return nil, fmt.Errorf("failed to parse dismissed_at for %s: %w", a.ID, err)
		}
		if a.SnoozedUntil, err = parseNullTime(snoozedUntil); err != nil {
			return nil, fmt.Errorf("failed to parse snoozed_until for %s: %w", a.ID, err)
		}

		list = append(list, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return list, nil
}

// DismissAlert marks an alert dismissed at the given time.
func (s *Store) DismissAlert(id string, at time.Time) error {
	query := `UPDATE contract_alerts SET status = ?, dismissed_at = ? WHERE id = ?`
	return s.updateAlert(id, query, string(alerts.StatusDismissed), at.Format(time.RFC3339), id)
}

// SnoozeAlert hides an alert until the given time.
func (s *Store) SnoozeAlert(id string, until time.Time) error {
	query := `UPDATE contract_alerts SET snoozed_until = ? WHERE id = ?`
	return s.updateAlert(id, query, until.Format(time.RFC3339), id)
}

func (s *Store) updateAlert(id, query string, args ...any) error {
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update alert %s", id), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("alert %s: %w", id, ErrAlertNotFound)
	}
	return nil
}

// CountAlerts returns the number of alerts with the given status.
func (s *Store) CountAlerts(status alerts.Status) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM contract_alerts WHERE status = ?`, string(status)).Scan(&count)
	if err != nil {
		return 0, wrapErr("failed to count alerts", err)
	}
	return count, nil
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
