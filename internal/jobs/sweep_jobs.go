package jobs

import "context"

// OverdueSweep refreshes overdue flags on open checkouts and reminds
// holders past their expected return date.
func (jr *JobRunner) OverdueSweep() {
	jr.runWithRecovery("OverdueSweep", func() error {
		return jr.alerts.RunOverdueSweep(context.Background())
	})
}

// LowStockSweep alerts admins about resources at or below the configured
// stock threshold.
func (jr *JobRunner) LowStockSweep() {
	jr.runWithRecovery("LowStockSweep", func() error {
		return jr.alerts.RunLowStockSweep(context.Background())
	})
}

// MaintenanceSweep alerts admins about resources whose next maintenance
// date has passed.
func (jr *JobRunner) MaintenanceSweep() {
	jr.runWithRecovery("MaintenanceSweep", func() error {
		return jr.alerts.RunMaintenanceSweep(context.Background())
	})
}

// DailySummary mails admins a snapshot of the catalog and ledger.
func (jr *JobRunner) DailySummary() {
	jr.runWithRecovery("DailySummary", func() error {
		return jr.alerts.RunDailySummary(context.Background())
	})
}
