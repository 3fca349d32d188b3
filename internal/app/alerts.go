package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/output"
)

var (
	alertsJSON       bool
	alertsSnoozeDays int
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage contract renewal alerts",
	Long: `Detect contract renewals in procurement data and manage the resulting
alerts.

Detection asks the commentary upstream to find contract terms in the first
records of a file. Every renewal after today and inside the alert window
(alerts.window_days, default 120) becomes an alert:

  HIGH    renews within 30 days
  MEDIUM  renews within 60 days
  LOW     renews later in the window

Dismissed alerts are hidden for good. Snoozed alerts return when the snooze
ends.`,
	Example: `  # Find renewals in a file
  spendscope alerts detect spend.csv

  # List active alerts, soonest first
  spendscope alerts list

  # Hide an alert for two weeks
  spendscope alerts snooze 6f1c... --days 14`,
	Args: cobra.NoArgs,
	RunE: runAlertsList,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active alerts, soonest renewal first",
	Args:  cobra.NoArgs,
	RunE:  runAlertsList,
}

var alertsDetectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Find contract renewals in a file and store alerts for them",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsDetect,
}

var alertsDismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss an alert",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsDismiss,
}

var alertsSnoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Hide an alert for a number of days",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsSnooze,
}

func init() {
	alertsCmd.PersistentFlags().BoolVar(&alertsJSON, "json", false, "print results as JSON")
	alertsSnoozeCmd.Flags().IntVar(&alertsSnoozeDays, "days", alerts.DefaultSnoozeDays, "snooze length in days")

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsDetectCmd)
	alertsCmd.AddCommand(alertsDismissCmd)
	alertsCmd.AddCommand(alertsSnoozeCmd)

	RootCmd.AddCommand(alertsCmd)
}

// withAlerts runs fn against an alert manager over the configured database.
func withAlerts(fn func(rt *runtime, m *alerts.Manager) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	st, err := rt.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(rt, rt.alertManager(st))
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	return withAlerts(func(rt *runtime, m *alerts.Manager) error {
		active, err := m.Active()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if alertsJSON {
			return writeJSON(out, active)
		}
		fmt.Fprint(out, output.RenderAlertTable(active))
		return nil
	})
}

func runAlertsDetect(cmd *cobra.Command, args []string) error {
	return withAlerts(func(rt *runtime, m *alerts.Manager) error {
		records, err := readRecords(args[0], rt.ingest)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.Commentary.Timeout)
		defer cancel()

		spinner := output.NewSpinner("Looking for contract renewals").WithTimeout(rt.cfg.Commentary.Timeout)
		spinner.SetWriter(cmd.ErrOrStderr())
		spinner.Start()
		det, err := m.Detect(ctx, records)
		spinner.Stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if alertsJSON {
			return writeJSON(out, det)
		}
		fmt.Fprintf(out, "Contracts found: %d · Alerts created: %d\n\n", len(det.Contracts), len(det.Created))
		fmt.Fprint(out, output.RenderAlertTable(det.Created))
		return nil
	})
}

func runAlertsDismiss(cmd *cobra.Command, args []string) error {
	return withAlerts(func(rt *runtime, m *alerts.Manager) error {
		if err := m.Dismiss(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alert %s dismissed\n", args[0])
		return nil
	})
}

func runAlertsSnooze(cmd *cobra.Command, args []string) error {
	if alertsSnoozeDays <= 0 {
		return fmt.Errorf("invalid days: %d (must be positive)", alertsSnoozeDays)
	}
	return withAlerts(func(rt *runtime, m *alerts.Manager) error {
		if err := m.Snooze(args[0], alertsSnoozeDays); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alert %s snoozed for %d days\n", args[0], alertsSnoozeDays)
		return nil
	})
}
