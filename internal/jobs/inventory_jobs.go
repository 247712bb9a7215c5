package jobs

import (
	"context"
	"fmt"
	"strings"

	"rentstack-backend/internal/logger"
)

// SecureUpcomingReservations pulls ledger stock for committed orders whose
// start date has reached the reservation horizon
func (jr *JobRunner) SecureUpcomingReservations() {
	jr.runWithRecovery("SecureUpcomingReservations", func() {
		ctx := context.Background()

		secured, err := jr.services.Inventory.SecureUpcomingReservations(ctx)
		if err != nil {
			logger.Error("Failed to secure upcoming reservations", "error", err)
			return
		}
		logger.Info("Secured upcoming reservations", "count", secured)
	})
}

// ReportLowStock emails the admin a digest of products at or below their
// alert threshold
func (jr *JobRunner) ReportLowStock() {
	jr.runWithRecovery("ReportLowStock", func() {
		ctx := context.Background()

		pools, err := jr.services.Inventory.ListLowStock(ctx)
		if err != nil {
			logger.Error("Failed to list low-stock pools", "error", err)
			return
		}
		if len(pools) == 0 {
			logger.Info("No low-stock products")
			return
		}

		var b strings.Builder
		b.WriteString("The following products are at or below their stock alert threshold:\n\n")
		for _, p := range pools {
			b.WriteString(fmt.Sprintf("- product %d: %d free (threshold %d", p.ProductID, p.ActualAvailable(), p.AlertThreshold))
			if p.NeedsReorder() {
				b.WriteString(", reorder recommended")
			}
			b.WriteString(")\n")
		}

		jr.notifier.AdminAlert(ctx, "Daily low-stock report", b.String())
		logger.Info("Reported low stock", "count", len(pools))
	})
}

// AuditOvercommit cross-checks committed order quantities against the
// inventory ledger and pages the admin on any divergence
func (jr *JobRunner) AuditOvercommit() {
	jr.runWithRecovery("AuditOvercommit", func() {
		ctx := context.Background()

		findings, err := jr.services.Inventory.AuditOvercommit(ctx)
		if err != nil {
			logger.Error("Failed to audit inventory commitments", "error", err)
			return
		}
		if len(findings) > 0 {
			logger.Error("Inventory overcommit detected", "count", len(findings))
			return
		}
		logger.Info("Inventory commitments consistent")
	})
}
